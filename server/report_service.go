package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MladenSU/color-mtr/internal/service/probe"
	"github.com/MladenSU/color-mtr/internal/service/report"
	"github.com/MladenSU/color-mtr/internal/tools"

	"github.com/gin-gonic/gin"
)

// ReportService 报告服务
type ReportService struct {
	prober     Prober
	classifier report.Classifier
	now        func() time.Time
}

// NewReportService 创建报告服务
func NewReportService(prober Prober, classifier report.Classifier) *ReportService {
	return &ReportService{
		prober:     prober,
		classifier: classifier,
		now:        time.Now,
	}
}

// GetReport 运行 mtr 并返回分级后的报告
func (s *ReportService) GetReport(c *gin.Context) {
	args, err := reportArgs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Error(CodeBadRequest, err.Error()))
		return
	}

	start := s.now().Format(report.StartTimeLayout)
	rep, err := s.prober.Invoke(c.Request.Context(), args)
	if err != nil {
		s.writeError(c, err)
		return
	}
	end := s.now().Format(report.EndTimeLayout)

	c.JSON(http.StatusOK, Success(report.Summarize(rep, s.classifier, start, end)))
}

// reportArgs builds mtr arguments from the query. Every arg must pass checkOptions.
func reportArgs(c *gin.Context) ([]string, error) {
	target := strings.TrimSpace(c.Query("target"))
	if target == "" {
		return nil, errors.New("target is required")
	}
	if strings.HasPrefix(target, "-") {
		return nil, errors.New("target must not start with '-'")
	}

	cmd := tools.NewMtrCommand("").Elevate(tools.ElevateNone).JSON(false)
	if raw := c.Query("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count <= 0 {
			return nil, errors.New("count must be a positive integer")
		}
		cmd.Count(count)
	}
	extra := c.QueryArray("arg")
	if err := checkOptions(extra); err != nil {
		return nil, err
	}
	cmd.Args(extra...)
	cmd.Target(target)

	// Drop the empty program slot; Invoke adds sudo, the path and -j itself
	return cmd.Argv()[1:], nil
}

func (s *ReportService) writeError(c *gin.Context, err error) {
	var (
		execErr   *probe.ExecutionError
		malformed *probe.MalformedOutputError
	)
	switch {
	case errors.Is(err, probe.ErrToolNotFound):
		c.JSON(http.StatusInternalServerError, Error(CodeToolNotFound, err.Error()))
	case errors.As(err, &execErr):
		c.JSON(http.StatusBadGateway, ErrorWithData(CodeToolFailed, err.Error(), gin.H{
			"exit_code": execErr.ExitCode,
			"stderr":    execErr.Stderr,
		}))
	case errors.As(err, &malformed):
		c.JSON(http.StatusBadGateway, ErrorWithData(CodeMalformed, err.Error(), gin.H{
			"output": malformed.Output,
		}))
	default:
		c.JSON(http.StatusInternalServerError, Error(CodeInternalError, err.Error()))
	}
}
