package gin

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>DataSage</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { color: #28285a; }
fieldset { border: 1px solid #ccd; border-radius: 6px; margin-bottom: 1rem; }
label { display: block; margin: .5rem 0 .2rem; }
textarea, select, input[type=text] { width: 100%; box-sizing: border-box; }
pre { white-space: pre-wrap; background: #f4f5fa; padding: 1rem; border-radius: 6px; }
</style>
</head>
<body>
<h1>DataSage</h1>
<p>Upload a CSV or Excel file and ask questions about it.</p>
<form id="ask" method="post" action="/api/ask" enctype="multipart/form-data">
<fieldset>
<label for="file">Dataset</label>
<input id="file" name="file" type="file" accept=".csv,.xlsx,.xlsm">
<label for="question">Question</label>
<textarea id="question" name="question" rows="4" placeholder="What story does this data tell?"></textarea>
<label for="template">Template</label>
<select id="template" name="template">
<option value="ask">Ask</option>
<option value="deep_analysis">Deep analysis</option>
<option value="data_story">Data story</option>
<option value="cleaning_advice">Cleaning advice</option>
<option value="chart_advice">Chart advice</option>
</select>
<label for="mode">Answer as</label>
<select id="mode" name="mode">
<option value="text">Text</option>
<option value="chart">Chart (PNG)</option>
<option value="pdf">PDF report</option>
<option value="speech">Speech (MP3)</option>
</select>
<label for="chart_kind">Chart kind</label>
<select id="chart_kind" name="chart_kind">
<option value="">Auto</option>
<option value="histogram">Histogram</option>
<option value="bar">Bar</option>
<option value="line">Line</option>
<option value="scatter">Scatter</option>
<option value="pie">Pie</option>
</select>
<label for="x">X column</label>
<input id="x" name="x" type="text">
<label for="y">Y column</label>
<input id="y" name="y" type="text">
</fieldset>
<button type="submit">Ask</button>
<button type="submit" formaction="/api/summary">Summarize</button>
</form>
<pre id="out" hidden></pre>
<script>
document.getElementById("ask").addEventListener("submit", async (ev) => {
  const form = ev.target;
  const action = ev.submitter.formAction || form.action;
  const mode = form.mode.value;
  if (action.endsWith("/api/ask") && mode !== "text") return;
  ev.preventDefault();
  const out = document.getElementById("out");
  out.hidden = false;
  out.textContent = "Working...";
  const res = await fetch(action, { method: "POST", body: new FormData(form) });
  const body = await res.json();
  out.textContent = body.error ? "Error: " + body.error + (body.fallback ? "\n\n" + body.fallback : "")
    : body.completion || JSON.stringify(body, null, 2);
});
</script>
</body>
</html>
`
