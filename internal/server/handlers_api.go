package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crownemmanuel/proassist/internal/domain"
)

func (s *Server) handleListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.app.ListSessions())
}

func (s *Server) handleGetSchedule(c echo.Context) error {
	return c.JSON(http.StatusOK, s.app.Schedule())
}

// requireAPIEnabled gates the side-effect endpoints. The flag is flipped
// at runtime by the control station via SetAPIEnabled.
func (s *Server) requireAPIEnabled(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.app.APIEnabled() {
			return c.JSON(http.StatusForbidden, map[string]string{
				"error": "api disabled",
			})
		}
		return next(c)
	}
}

type scriptureRequest struct {
	VerseText string `json:"verseText"`
	Reference string `json:"reference"`
}

// handleGoLiveScripture projects a scripture verse on the audience
// display. It goes through UpdateDisplay like every other display change;
// the HTTP layer never mutates the store directly.
func (s *Server) handleGoLiveScripture(c echo.Context) error {
	var req scriptureRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Reference == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "reference is required"})
	}

	display := s.app.Display()
	display.Scripture = domain.Scripture{VerseText: req.VerseText, Reference: req.Reference}
	s.app.UpdateDisplay(display)

	return c.JSON(http.StatusOK, display)
}

type timerRequest struct {
	SecondsLeft int    `json:"secondsLeft"`
	Label       string `json:"label"`
}

func (s *Server) handleStartTimer(c echo.Context) error {
	var req timerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.SecondsLeft <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "secondsLeft must be positive"})
	}

	timer := domain.TimerState{
		IsRunning:   true,
		SecondsLeft: req.SecondsLeft,
		Label:       req.Label,
	}
	s.app.UpdateTimer(timer)

	return c.JSON(http.StatusOK, timer)
}
