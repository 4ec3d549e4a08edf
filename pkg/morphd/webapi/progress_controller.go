package webapi

import (
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type ProgressController struct {
	hub      *ProgressHub
	upgrader websocket.Upgrader
}

func NewProgressController(hub *ProgressHub) *ProgressController {
	return &ProgressController{
		hub:      hub,
		upgrader: websocket.Upgrader{},
	}
}

// ProgressMsg is one step of the conversion progress sequence.
type ProgressMsg struct {
	Pct int `json:"pct"`
}

// HandleProgressConnection streams conversion progress to the client for as
// long as the socket stays open.
func (c *ProgressController) HandleProgressConnection(ctx echo.Context) error {
	ws, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}

	sub := c.hub.Subscribe()
	defer func() {
		c.hub.Unsubscribe(sub)
		_ = ws.Close()
	}()

	for pct := range sub {
		if err := ws.WriteJSON(ProgressMsg{Pct: pct}); err != nil {
			return nil
		}
	}

	return nil
}
