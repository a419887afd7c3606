package gin

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/datasage"
	dsjson "github.com/fwojciec/datasage/json"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSummary(c *gin.Context) {
	d, err := s.upload(c, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dsjson.NewAnalysis(*d))
}

func (s *Server) handleQuery(c *gin.Context) {
	d, err := s.upload(c, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	question := c.PostForm("question")
	res, err := datasage.Query(*d, question)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dsjson.NewQuery(question, res))
}

func (s *Server) handleAsk(c *gin.Context) {
	d, err := s.upload(c, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	act, err := parseAction(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	session := datasage.NewSession(d)
	ctx := c.Request.Context()

	if !act.Mode.Binary() {
		res, err := s.agent.Ask(ctx, session, act)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"completion":  res.Completion.Text,
			"model":       res.Completion.Model,
			"stop_reason": res.Completion.StopReason,
			"usage": gin.H{
				"input_tokens":  res.Completion.Usage.InputTokens,
				"output_tokens": res.Completion.Usage.OutputTokens,
			},
			"session_id": session.ID,
		})
		return
	}

	var buf bytes.Buffer
	if _, err := s.agent.Run(ctx, session, act, &buf); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("X-Session-ID", session.ID)
	if name := attachmentName(act.Mode); name != "" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	c.Data(http.StatusOK, act.Mode.ContentType(), buf.Bytes())
}

func attachmentName(m datasage.Mode) string {
	switch m {
	case datasage.ModePDF:
		return "data_analysis_report.pdf"
	case datasage.ModeSpeech:
		return "answer.mp3"
	}
	return ""
}

func parseAction(c *gin.Context) (datasage.Action, error) {
	mode, err := datasage.ParseMode(c.PostForm("mode"))
	if err != nil {
		return datasage.Action{}, err
	}
	tmpl, err := datasage.ParseTemplate(c.PostForm("template"))
	if err != nil {
		return datasage.Action{}, err
	}
	kind, err := datasage.ParseChartKind(c.PostForm("chart_kind"))
	if err != nil {
		return datasage.Action{}, err
	}
	act := datasage.Action{
		Instruction: c.PostForm("question"),
		Template:    tmpl,
		Mode:        mode,
	}
	if mode == datasage.ModeChart || c.PostForm("chart_kind") != "" {
		act.Chart = datasage.ChartSpec{Kind: kind, X: c.PostForm("x"), Y: c.PostForm("y")}
	}
	if strings.TrimSpace(act.Instruction) == "" {
		return act, fmt.Errorf("question is required: %w", datasage.ErrInvalidInput)
	}
	return act, nil
}

// upload loads the multipart "file" field. A missing file is an error only
// when required; otherwise the dataset is nil.
func (s *Server) upload(c *gin.Context, required bool) (*datasage.Dataset, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) && !required {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file upload: %v: %w", err, datasage.ErrInvalidInput)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	d, err := s.load(fh.Filename, f)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// fail writes err as a JSON error body with a status derived from its kind.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	body := gin.H{"error": err.Error()}
	status := http.StatusInternalServerError
	var re *datasage.RenderError
	switch {
	case errors.As(err, &re):
		body["fallback"] = re.Fallback
	case errors.Is(err, datasage.ErrInvalidInput),
		errors.Is(err, datasage.ErrValidation),
		errors.Is(err, datasage.ErrUnsupportedFormat),
		errors.Is(err, datasage.ErrUnrecognizedQuery):
		status = http.StatusBadRequest
	case errors.Is(err, datasage.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, datasage.ErrProvider):
		status = http.StatusBadGateway
	}
	c.JSON(status, body)
}
