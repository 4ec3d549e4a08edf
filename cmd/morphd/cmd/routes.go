package cmd

import (
	"github.com/filemorph/morph/pkg/morphd/convert"
	"github.com/filemorph/morph/pkg/morphd/history"
	"github.com/filemorph/morph/pkg/morphd/session"
	"github.com/filemorph/morph/pkg/morphd/webapi"
	"github.com/labstack/echo/v4"
)

type RouteOpts struct {
	manager    *session.Manager
	driver     *convert.Driver
	historyLog *history.Log
	hub        *webapi.ProgressHub
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	g := e.Group("/api")

	converterController := webapi.NewConverterController(opts.manager, opts.driver, opts.historyLog)

	g.POST("/conversions", converterController.LoadFile)
	g.GET("/conversions/current", converterController.GetCurrent)
	g.POST("/conversions/format", converterController.SelectFormat)
	g.POST("/conversions/convert", converterController.Convert)
	g.GET("/conversions/download", converterController.Download)
	g.DELETE("/conversions", converterController.Reset)

	historyController := webapi.NewHistoryController(opts.historyLog)
	g.GET("/history", historyController.ListHistory)
	g.GET("/history/:id/download", historyController.DownloadHistoryItem)

	progressController := webapi.NewProgressController(opts.hub)
	e.GET("/ws/progress", progressController.HandleProgressConnection)
}
