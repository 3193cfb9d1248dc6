package services

import (
	"strings"

	"starzup-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

// SupportService is the scripted FAQ bot from the support page. Replies
// are canned; matching is keyword based and accent-insensitive, so
// "inscrição" and "inscricao" hit the same rule. First matching rule
// wins, same as the original script.
type SupportService struct {
	DB *gorm.DB
}

func NewSupportService(db *gorm.DB) *SupportService {
	return &SupportService{DB: db}
}

// ptBR formats currency amounts the way the original UI did (R$ 1.234,56).
var ptBR = message.NewPrinter(language.BrazilianPortuguese)

type supportRule struct {
	keywords []string
	reply    func(s *SupportService) string
}

var supportRules = []supportRule{
	{
		keywords: []string{"cadastr", "inscricao", "conta"},
		reply: func(*SupportService) string {
			return "Para se cadastrar na Starz Up: clique em \"Cadastrar\" no menu, " +
				"preencha nome, email e senha e confirme seu email. É rápido e gratuito!"
		},
	},
	{
		keywords: []string{"torneio", "campeonato"},
		reply:    (*SupportService).openTournamentsReply,
	},
	{
		keywords: []string{"deposito", "depositar", "saque", "sacar", "saldo"},
		reply: func(*SupportService) string {
			return ptBR.Sprintf(
				"Você pode depositar e sacar pela aba Carteira do dashboard. "+
					"O valor mínimo por operação é R$ %.2f.", MinTransactionAmount)
		},
	},
	{
		keywords: []string{"pagamento", "pagar"},
		reply: func(*SupportService) string {
			return "Aceitamos cartão de crédito, cartão de débito, PIX e boleto bancário. " +
				"Todos os pagamentos são seguros e criptografados!"
		},
	},
	{
		keywords: []string{"regra"},
		reply: func(*SupportService) string {
			return "Principais regras: respeito entre jogadores, proibido uso de cheats, " +
				"pontualidade nos jogos e configurações oficiais. Leia o regulamento completo antes de participar!"
		},
	},
	{
		keywords: []string{"ola", "oi", "bom dia", "boa tarde"},
		reply: func(*SupportService) string {
			return "Olá! Como posso ajudá-lo hoje?"
		},
	},
	{
		keywords: []string{"obrigad"},
		reply: func(*SupportService) string {
			return "Por nada! Estou aqui para ajudar sempre que precisar!"
		},
	},
}

const supportFallback = "Desculpe, não entendi sua pergunta. Você pode me perguntar sobre: " +
	"como se cadastrar, torneios disponíveis, depósitos e saques, formas de pagamento ou regras dos torneios."

// Reply resolves the canned answer for a user message.
func (s *SupportService) Reply(msg string) string {
	normalized := strings.ToLower(unidecode.Unidecode(msg))
	for _, rule := range supportRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.reply(s)
			}
		}
	}
	return supportFallback
}

// openTournamentsReply quotes the currently open tournaments and their
// fees instead of the original's hardcoded list.
func (s *SupportService) openTournamentsReply() string {
	var tournaments []models.Tournament
	if err := s.DB.Where("status = ?", models.TournamentOpen).
		Order("start_time ASC").
		Limit(5).
		Find(&tournaments).Error; err != nil || len(tournaments) == 0 {
		return "No momento não há torneios abertos, mas novos torneios chegam toda semana!"
	}

	var b strings.Builder
	b.WriteString("Torneios abertos no momento: ")
	for i, t := range tournaments {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ptBR.Sprintf("%s (%s) - taxa R$ %.2f", t.Name, t.Game, t.EntryFee))
	}
	b.WriteString(". Novos torneios toda semana!")
	return b.String()
}

// --- HTTP surface ---

func (s *SupportService) Chat(c *fiber.Ctx) error {
	type Req struct {
		Message string `json:"message"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}
	return c.JSON(fiber.Map{"reply": s.Reply(req.Message)})
}

// QuickReplies lists the scripted prompts shown before the first message.
func (s *SupportService) QuickReplies(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"quick_replies": []string{
			"Como me cadastrar?",
			"Quais torneios estão abertos?",
			"Como depositar saldo?",
			"Quais são as regras?",
		},
	})
}
