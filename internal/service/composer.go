package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"shopassist/internal/model"
)

// Fixed replies
const (
	DegradedMessage  = "Désolé, je rencontre un problème technique. Pouvez-vous reformuler votre demande dans un instant ?"
	EmptyInputReply  = "Désolé, je n'ai pas reçu de message. Que recherchez-vous ?"
	greetingReply    = "Bonjour ! Je suis votre assistant déco. Dites-moi ce que vous cherchez : un canapé, une table, une couleur, un budget…"
	faqReply         = "Pour les questions de livraison, de retour, de garantie ou de paiement, consultez la page d'aide du magasin ou contactez le service client. Je peux aussi vous aider à trouver un meuble !"
	noResultsReply   = "Je n'ai trouvé aucun produit en stock correspondant à votre demande. Essayez d'élargir vos critères (budget, couleur ou matière)."
	maxListedMatches = 3
)

// TemplateComposer writes deterministic French replies without any network call
type TemplateComposer struct{}

// NewTemplateComposer creates the template composer
func NewTemplateComposer() *TemplateComposer {
	return &TemplateComposer{}
}

// Compose implements Composer
func (t *TemplateComposer) Compose(_ context.Context, _ string, matches []model.ScoredMatch, intent model.SearchIntent) (string, error) {
	switch {
	case intent.IntentType == model.IntentChat:
		return greetingReply, nil
	case intent.IntentType == model.IntentFAQ:
		return faqReply, nil
	case len(matches) == 0:
		return noResultsReply, nil
	}

	var b strings.Builder
	switch intent.IntentType {
	case model.IntentStyleAdvice:
		b.WriteString("Voici quelques pièces qui iraient bien avec votre projet :")
	case model.IntentRoomPlanning:
		b.WriteString("Pour aménager cette pièce, je vous propose :")
	default:
		if len(matches) == 1 {
			b.WriteString("J'ai trouvé un produit qui correspond :")
		} else {
			b.WriteString(fmt.Sprintf("J'ai trouvé %d produits qui correspondent :", len(matches)))
		}
	}
	for i, m := range matches {
		if i == maxListedMatches {
			break
		}
		b.WriteString(fmt.Sprintf("\n- %s à %s", m.Product.Title, formatEuros(m.Product.Price)))
	}
	if intent.Confidence < 50 {
		b.WriteString("\nPouvez-vous préciser la couleur, la matière ou votre budget pour affiner ?")
	}
	return b.String(), nil
}

// completer is the part of OpenAIClient the composer uses
type completer interface {
	Complete(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int) (string, error)
	CompleteStream(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int, onDelta func(string) error) (string, error)
}

// LLMComposer asks a language model for the reply and falls back to the template
type LLMComposer struct {
	client      completer
	model       string
	temperature float64
	maxTokens   int
	fallback    *TemplateComposer
	logger      zerolog.Logger
}

var _ StreamingComposer = (*LLMComposer)(nil)

// NewLLMComposer creates a model-backed composer
func NewLLMComposer(client completer, model string, temperature float64, maxTokens int, logger zerolog.Logger) *LLMComposer {
	return &LLMComposer{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		fallback:    NewTemplateComposer(),
		logger:      logger.With().Str("component", "composer").Logger(),
	}
}

// Compose implements Composer. Chat and faq replies stay on templates.
func (c *LLMComposer) Compose(ctx context.Context, message string, matches []model.ScoredMatch, intent model.SearchIntent) (string, error) {
	if !intent.ShouldSearch {
		return c.fallback.Compose(ctx, message, matches, intent)
	}
	reply, err := c.client.Complete(ctx, c.model, composerMessages(message, matches, intent), c.temperature, c.maxTokens)
	if err != nil {
		c.logger.Warn().Err(err).Msg("reply generation failed, using template")
		return c.fallback.Compose(ctx, message, matches, intent)
	}
	return reply, nil
}

// ComposeStream implements StreamingComposer. When the stream fails before any
// delta was sent, the template reply is emitted as one delta.
func (c *LLMComposer) ComposeStream(ctx context.Context, message string, matches []model.ScoredMatch, intent model.SearchIntent, onDelta func(string) error) (string, error) {
	if intent.ShouldSearch {
		sent := false
		reply, err := c.client.CompleteStream(ctx, c.model, composerMessages(message, matches, intent), c.temperature, c.maxTokens,
			func(delta string) error {
				sent = true
				return onDelta(delta)
			})
		if err == nil {
			return reply, nil
		}
		if sent {
			return "", err
		}
		c.logger.Warn().Err(err).Msg("reply streaming failed, using template")
	}

	reply, _ := c.fallback.Compose(ctx, message, matches, intent)
	if err := onDelta(reply); err != nil {
		return "", err
	}
	return reply, nil
}

const composerSystemPrompt = `Tu es le conseiller d'un magasin de meubles. Réponds en français, en 2 à 4 phrases chaleureuses et concrètes.
Ne recommande QUE les produits listés, avec leur nom et leur prix. N'invente aucun produit, prix ou caractéristique.
S'il n'y a aucun produit, dis-le simplement et propose d'élargir les critères.`

func composerMessages(message string, matches []model.ScoredMatch, intent model.SearchIntent) []ChatMessage {
	var ctxText strings.Builder
	ctxText.WriteString(fmt.Sprintf("Type de demande: %s\n", intent.IntentType))
	if len(matches) == 0 {
		ctxText.WriteString("Produits: aucun produit en stock ne correspond.\n")
	} else {
		ctxText.WriteString("Produits classés:\n")
		for i, m := range matches {
			p := m.Product
			ctxText.WriteString(fmt.Sprintf("%d. %s | %s | %s %s %s | score %d | %s\n",
				i+1, p.Title, formatEuros(p.Price), p.Color, p.Material, p.Style, m.RelevanceScore, m.Reasoning))
		}
	}
	return []ChatMessage{
		{Role: "system", Content: composerSystemPrompt},
		{Role: "system", Content: ctxText.String()},
		{Role: "user", Content: message},
	}
}
