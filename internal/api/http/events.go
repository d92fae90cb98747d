package httpapi

import (
	"bufio"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const keepAliveInterval = 15 * time.Second

type subscribable[S any] interface {
	State() S
	Subscribe() (uuid.UUID, <-chan S)
	Unsubscribe(uuid.UUID)
}

// streamState serves a store's state as server-sent events: the current
// state first, then every change. The stream ends when done is closed.
func streamState[S any](src subscribable[S], done <-chan struct{}, view func(S) any) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		id, updates := src.Subscribe()
		initial := view(src.State())

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer src.Unsubscribe(id)

			if err := writeEvent(w, "state", initial); err != nil {
				return
			}

			ticker := time.NewTicker(keepAliveInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case st, ok := <-updates:
					if !ok {
						return
					}
					if err := writeEvent(w, "state", view(st)); err != nil {
						return
					}
				case <-ticker.C:
					if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
						return
					}
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		}))
		return nil
	}
}

func writeEvent(w *bufio.Writer, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
