package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
)

// ReportGenerator renders a report. *report.Generator satisfies it.
type ReportGenerator interface {
	Generate(ctx context.Context, p report.Period, f report.Format) (report.Report, error)
}

type ReportHandler struct {
	generator ReportGenerator
	logger    logger.Logger
}

func NewReportHandler(gen ReportGenerator, log logger.Logger) *ReportHandler {
	return &ReportHandler{generator: gen, logger: log}
}

// Download handles GET /reports/:file where file is "<period>.<format>",
// for example weekly.pdf or daily.xlsx.
func (h *ReportHandler) Download(c *gin.Context) {
	periodName, formatName, ok := strings.Cut(c.Param("file"), ".")
	if !ok {
		respondBadRequest(c, h.logger, fmt.Errorf("%w: expected <period>.<format>", errBadParam))
		return
	}
	period, err := report.ParsePeriod(periodName)
	if err != nil {
		respondError(c, h.logger, "Invalid report period", err)
		return
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		respondError(c, h.logger, "Invalid report format", err)
		return
	}

	rep, err := h.generator.Generate(c.Request.Context(), period, format)
	if err != nil {
		respondError(c, h.logger, "Failed to generate report", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, rep.Filename))
	c.Data(http.StatusOK, format.ContentType(), rep.Data)
}
