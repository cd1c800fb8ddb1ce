package bot

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"daylog-bot/telegram"
)

const webhookMaxSize = 1 << 20 // 1 MiB

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Register wires the health and admin routes on the provided Echo instance.
func Register(e *echo.Echo, flusher *Flusher, adminToken string) {
	e.GET("/healthz", healthz())
	e.POST("/admin/flush", adminFlush(flusher, adminToken))
}

// RegisterWebhook adds the Telegram webhook route. secret, when non-empty,
// must match the secret token Telegram echoes back on every delivery.
func RegisterWebhook(e *echo.Echo, b *Bot, secret string) {
	e.POST("/telegram/webhook", webhook(b, secret))
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func webhook(b *Bot, secret string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if secret != "" {
			got := c.Request().Header.Get(secretTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return c.NoContent(http.StatusUnauthorized)
			}
		}

		lr := io.LimitReader(c.Request().Body, webhookMaxSize)
		var upd telegram.Update
		if err := sonic.ConfigStd.NewDecoder(lr).Decode(&upd); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}

		b.HandleUpdate(c.Request().Context(), upd)
		// Always 200 once decoded; Telegram re-delivers anything else and the
		// update has already been handled.
		return c.NoContent(http.StatusOK)
	}
}

// adminFlush triggers the same flush pass the daily schedule runs. It exists
// so an operator can recover a day whose scheduled delivery failed.
func adminFlush(flusher *Flusher, token string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token == "" {
			return c.NoContent(http.StatusNotFound)
		}
		got := c.Request().Header.Get(echo.HeaderAuthorization)
		if subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+token)) != 1 {
			return c.NoContent(http.StatusUnauthorized)
		}
		if err := flusher.Run(c.Request().Context()); err != nil {
			return c.String(http.StatusBadGateway, err.Error())
		}
		return c.NoContent(http.StatusOK)
	}
}
