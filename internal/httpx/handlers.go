package httpx

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"netchess/internal/game"
)

// parseBody decodes and validates a JSON request body, writing the error
// response itself on failure.
func parseBody(c *fiber.Ctx, dst any) bool {
	if err := c.BodyParser(dst); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid request body",
			Code:    codeInvalidRequest,
			Details: err.Error(),
		})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var errs validator.ValidationErrors
		details := err.Error()
		if errors.As(err, &errs) {
			details = validationDetails(errs)
		}
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation failed",
			Code:    codeInvalidRequest,
			Details: details,
		})
		return false
	}
	return true
}

func gameNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error: "game not found",
		Code:  codeGameNotFound,
	})
}

// rejectionError maps an engine rejection onto the error body. Terminal-state
// refusals are conflicts; everything else is a bad request.
func rejectionError(c *fiber.Ctx, rej *game.Rejection) error {
	status := fiber.StatusBadRequest
	if rej.Code == game.RejectGameNotActive {
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(ErrorResponse{
		Error: rej.Message,
		Code:  rej.Code.Code(),
	})
}

func (s *Server) createGame(c *fiber.Ctx) error {
	var req CreateGameRequest
	if len(c.Body()) > 0 {
		if !parseBody(c, &req) {
			return nil
		}
	}

	var (
		g   *game.Game
		err error
	)
	if req.FEN != "" {
		g, err = game.NewGameFromFEN(req.FEN)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid position",
				Code:    codeInvalidFEN,
				Details: err.Error(),
			})
		}
	} else {
		g = game.NewGame()
	}

	id := s.register(g)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"gameId": id,
		"state":  g.State(),
	})
}

func (s *Server) getGame(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}
	sess.mu.Lock()
	state := sess.game.State()
	sess.mu.Unlock()
	return c.JSON(fiber.Map{
		"gameId": c.Params("gameId"),
		"state":  state,
	})
}

func (s *Server) makeMove(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}

	var req MoveRequest
	if !parseBody(c, &req) {
		return nil
	}

	from, ok := game.CoordToSquare(strings.ToLower(strings.TrimSpace(req.From)))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid from square",
			Code:    game.RejectMalformedInput.Code(),
			Details: req.From,
		})
	}
	to, ok := game.CoordToSquare(strings.ToLower(strings.TrimSpace(req.To)))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid to square",
			Code:    game.RejectMalformedInput.Code(),
			Details: req.To,
		})
	}

	move := game.Move{From: from, To: to}
	if promotion := strings.TrimSpace(req.Promotion); promotion != "" {
		pt, ok := game.ParsePromotionPiece(promotion)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid promotion choice",
				Code:    game.RejectMalformedInput.Code(),
				Details: req.Promotion,
			})
		}
		move.Promotion = pt
		move.HasPromotion = true
	}

	sess.mu.Lock()
	rec, err := sess.game.ApplyMove(move)
	state := sess.game.State()
	sess.mu.Unlock()

	if err != nil {
		if rej, ok := game.AsRejection(err); ok {
			return rejectionError(c, rej)
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  codeInvalidRequest,
		})
	}

	return c.JSON(fiber.Map{
		"record": rec,
		"state":  state,
	})
}

func (s *Server) legalMoves(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}

	sess.mu.Lock()
	color := sess.game.CurrentTurn()
	if q := c.Query("color"); q != "" {
		parsed, ok := game.ParseColor(q)
		if !ok {
			sess.mu.Unlock()
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid color",
				Code:    codeInvalidRequest,
				Details: q,
			})
		}
		color = parsed
	}
	moves := sess.game.LegalMoves(color)
	sess.mu.Unlock()

	notations := make([]string, 0, len(moves))
	for _, m := range moves {
		notations = append(notations, m.String())
	}
	return c.JSON(fiber.Map{
		"color": color.String(),
		"moves": notations,
	})
}

func (s *Server) resign(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}

	var req ResignRequest
	if !parseBody(c, &req) {
		return nil
	}
	color, _ := game.ParseColor(req.Color)

	sess.mu.Lock()
	err := sess.game.Resign(color)
	state := sess.game.State()
	sess.mu.Unlock()

	if err != nil {
		if rej, ok := game.AsRejection(err); ok {
			return rejectionError(c, rej)
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  codeInvalidRequest,
		})
	}
	return c.JSON(fiber.Map{"state": state})
}

func (s *Server) undoMoves(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}

	req := UndoRequest{Count: 1}
	if len(c.Body()) > 0 {
		if !parseBody(c, &req) {
			return nil
		}
		if req.Count == 0 {
			req.Count = 1
		}
	}

	sess.mu.Lock()
	err := sess.game.Undo(req.Count)
	state := sess.game.State()
	sess.mu.Unlock()

	if err != nil {
		if errors.Is(err, game.ErrUndoUnavailable) {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Error: err.Error(),
				Code:  codeUndoUnavailable,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  codeInvalidRequest,
		})
	}
	return c.JSON(fiber.Map{"state": state})
}

func (s *Server) getSnapshot(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}
	sess.mu.Lock()
	snap := sess.game.Snapshot()
	sess.mu.Unlock()
	return c.JSON(snap)
}

func (s *Server) restoreSnapshot(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}

	var snap game.Snapshot
	if err := c.BodyParser(&snap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid request body",
			Code:    codeInvalidRequest,
			Details: err.Error(),
		})
	}

	sess.mu.Lock()
	err := sess.game.Restore(snap)
	state := sess.game.State()
	sess.mu.Unlock()

	if err != nil {
		if errors.Is(err, game.ErrSnapshotMalformed) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: err.Error(),
				Code:  codeMalformedSnapshot,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  codeInvalidRequest,
		})
	}
	return c.JSON(fiber.Map{"state": state})
}

func (s *Server) getFingerprint(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}
	sess.mu.Lock()
	fp := sess.game.Fingerprint()
	version := sess.game.StateVersion()
	sess.mu.Unlock()
	return c.JSON(fiber.Map{
		"fingerprint":  fp,
		"stateVersion": version,
	})
}

func (s *Server) getConsistency(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("gameId"))
	if !ok {
		return gameNotFound(c)
	}
	sess.mu.Lock()
	report := sess.game.CheckConsistency()
	sess.mu.Unlock()
	return c.JSON(report)
}
