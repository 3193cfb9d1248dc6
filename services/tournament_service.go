package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"starzup-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type TournamentService struct {
	DB *gorm.DB
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{DB: db}
}

// CreateTournament creates a new open tournament with an empty roster.
// Admin only (enforced by middleware on the route group).
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	type Req struct {
		Name        string  `json:"name"`
		Game        string  `json:"game"`
		StartTime   string  `json:"start_time"` // RFC3339
		Prize       float64 `json:"prize"`
		EntryFee    float64 `json:"entry_fee"`
		Capacity    int     `json:"capacity"`
		Description string  `json:"description"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Game = strings.TrimSpace(req.Game)
	if req.Name == "" || req.Game == "" || req.StartTime == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name, game and start_time are required"})
	}
	if req.Prize < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "prize must be non-negative"})
	}
	if req.EntryFee < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "entry_fee must be non-negative"})
	}
	if req.Capacity <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "capacity must be a positive integer"})
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_time (use RFC3339)"})
	}

	tournament := &models.Tournament{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Game:        req.Game,
		StartTime:   startTime,
		Prize:       req.Prize,
		EntryFee:    req.EntryFee,
		Capacity:    req.Capacity,
		Status:      models.TournamentOpen,
		Description: req.Description,
	}
	// Slug carries a short id suffix so two tournaments may share a name.
	tournament.Slug = slug.Make(req.Name) + "-" + tournament.ID[:8]

	if err := s.DB.Create(tournament).Error; err != nil {
		log.Printf("ERROR creating tournament: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(tournament)
}

// DeleteTournament removes a tournament and its roster unconditionally.
// Registrants are not refunded here; the ledger keeps their fee entries
// and the audit worker reports the mismatch for operator reconciliation.
func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tournament_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Tournament{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		log.Printf("ERROR deleting tournament %s: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	return c.JSON(fiber.Map{"message": "tournament deleted", "id": id})
}

// UpdateTournamentStatus flips a tournament between open and closed.
func (s *TournamentService) UpdateTournamentStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	type Req struct {
		Status string `json:"status"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Status != models.TournamentOpen && req.Status != models.TournamentClosed {
		return c.Status(400).JSON(fiber.Map{"error": "status must be 'open' or 'closed'"})
	}

	result := s.DB.Model(&models.Tournament{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  req.Status,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}

	var updated models.Tournament
	s.DB.First(&updated, "id = ?", id)
	return c.JSON(updated)
}

// ListOpenTournaments returns the public listing: open tournaments
// ordered by start time, each with its roster count. Optional ?game=
// filter matches the original page's per-game tabs.
func (s *TournamentService) ListOpenTournaments(c *fiber.Ctx) error {
	var tournaments []models.MiniTournament
	query := `
        SELECT
            t.id,
            t.name,
            t.slug,
            t.game,
            t.start_time,
            t.prize,
            t.entry_fee,
            t.capacity,
            t.status,
            t.description,
            COUNT(r.id) AS players_count
        FROM tournaments t
        LEFT JOIN registrations r ON t.id = r.tournament_id
        WHERE t.status = 'open'
        GROUP BY t.id
        ORDER BY t.start_time ASC
    `
	if err := s.DB.Raw(query).Scan(&tournaments).Error; err != nil {
		log.Printf("ERROR fetching open tournaments: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}

	game := c.Query("game", "")
	if game != "" {
		filtered := tournaments[:0]
		for _, t := range tournaments {
			if t.Game == game {
				filtered = append(filtered, t)
			}
		}
		tournaments = filtered
	}
	return c.JSON(tournaments)
}

// GetAllTournaments is the admin listing, every status included.
func (s *TournamentService) GetAllTournaments(c *fiber.Ctx) error {
	var tournaments []models.Tournament
	if err := s.DB.Order("start_time ASC").Find(&tournaments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(tournaments)
}

// GetTournamentByID fetches one tournament with its ordered roster.
// Accepts a uuid or a slug.
func (s *TournamentService) GetTournamentByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var tournament models.Tournament
	err := s.DB.
		Preload("Registrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot ASC")
		}).
		Where("id = ? OR slug = ?", id, id).
		First(&tournament).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		log.Printf("ERROR fetching tournament %s: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	tournament.PlayersCount = int64(len(tournament.Registrations))
	return c.JSON(tournament)
}

// GetPlatformStats aggregates the landing-page numbers: total prize
// money, total registered players and tournament count, open only.
func (s *TournamentService) GetPlatformStats(c *fiber.Ctx) error {
	type Stats struct {
		TotalPrizes     float64 `json:"total_prizes"`
		TotalPlayers    int64   `json:"total_players"`
		OpenTournaments int64   `json:"open_tournaments"`
	}
	var stats Stats
	query := `
        SELECT
            COALESCE((SELECT SUM(prize) FROM tournaments WHERE status = 'open'), 0) AS total_prizes,
            (SELECT COUNT(*) FROM registrations r
                JOIN tournaments t ON t.id = r.tournament_id
                WHERE t.status = 'open') AS total_players,
            (SELECT COUNT(*) FROM tournaments WHERE status = 'open') AS open_tournaments
    `
	if err := s.DB.Raw(query).Scan(&stats).Error; err != nil {
		log.Printf("ERROR computing platform stats: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to compute stats"})
	}
	return c.JSON(stats)
}
