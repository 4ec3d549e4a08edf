package webapi

import "github.com/labstack/echo/v4"

// Notice is the transient user-facing message the UI shows as a toast.
type Notice struct {
	Notice string `json:"notice"`
	Level  string `json:"level"`
}

func errorNotice(ctx echo.Context, status int, msg string) error {
	return ctx.JSON(status, Notice{Notice: msg, Level: "error"})
}
