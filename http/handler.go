package http

import (
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
)

const headerKeyCorrelationID = "Correlation-ID"

func correlationID(c echo.Context) string {
	id := c.Request().Header.Get(headerKeyCorrelationID)
	if id == "" {
		id = "gen_" + shortuuid.New()
	}
	return id
}
