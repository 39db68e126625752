package handlers

import (
	"net/http"
	"strconv"

	"adaptui/internal/models"
	"adaptui/internal/tracker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type ResultsHandler struct {
	log      *zap.Logger
	registry *tracker.Registry
}

func NewResultsHandler(log *zap.Logger, registry *tracker.Registry) *ResultsHandler {
	return &ResultsHandler{log: log, registry: registry}
}

// Show renders an HTML page with per-task duration and click charts for the
// current session. Experimenter-facing; the participant never sees it.
func (h *ResultsHandler) Show(c *gin.Context) {
	t, participantID, ok := sessionTracker(c, h.registry)
	if !ok {
		return
	}
	rec := t.Snapshot()

	labels := make([]string, 0, len(models.ConditionKeys))
	times := make([]opts.BarData, 0, len(models.ConditionKeys))
	clicks := make([]opts.BarData, 0, len(models.ConditionKeys))
	for _, key := range models.ConditionKeys {
		labels = append(labels, key)

		seconds := 0.0
		if raw, ok := rec.Extra["exp_task_"+key+"_time"]; ok {
			seconds, _ = strconv.ParseFloat(raw, 64)
		}
		times = append(times, opts.BarData{Value: seconds})

		count := 0
		if raw, ok := rec.Extra["exp_task_"+key+"_clicks"]; ok {
			count, _ = strconv.Atoi(raw)
		}
		clicks = append(clicks, opts.BarData{Value: count})
	}

	page := components.NewPage()
	page.AddCharts(
		taskBarChart("Task Duration", "seconds", labels, times),
		taskBarChart("Task Clicks", "clicks", labels, clicks),
	)

	h.log.Debug("Rendering results page", zap.String("participant_id", participantID))

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		h.log.Error("Failed to render results page", zap.Error(err))
		c.Status(http.StatusInternalServerError)
	}
}

func taskBarChart(title, seriesName string, labels []string, data []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
	)
	bar.SetXAxis(labels).AddSeries(seriesName, data)
	return bar
}
