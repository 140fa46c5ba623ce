package service

import (
	"fmt"
	"strings"

	"shopassist/internal/model"
	"shopassist/internal/vocab"
)

// intentSystemPrompt is filled with the closed vocabularies at startup
const intentSystemPrompt = `Tu es l'assistant d'achat d'un magasin de meubles. Analyse le dernier message du client et réponds UNIQUEMENT avec un objet JSON valide, sans texte autour.

Schéma:
{
  "intent_type": "product_search" | "style_advice" | "room_planning" | "faq" | "chat",
  "should_search_products": boolean,
  "target_category": string | null,       // une valeur de CATEGORIES
  "target_subcategory": string | null,    // une valeur de SUBCATEGORIES
  "target_colors": string[],              // valeurs de COLORS
  "target_materials": string[],           // valeurs de MATERIALS
  "target_styles": string[],              // valeurs de STYLES
  "target_room": string | null,           // une valeur de ROOMS
  "price_constraint": {"min": number | null, "max": number | null} | null,
  "special_features": string[],           // valeurs de FEATURES
  "confidence": integer 0-100
}

CATEGORIES: %s
SUBCATEGORIES: %s
COLORS: %s
MATERIALS: %s
STYLES: %s
ROOMS: %s
FEATURES: %s

Règles:
- N'utilise que les valeurs listées; omets ou laisse vide ce qui n'est pas mentionné.
- Salutations et bavardage: intent_type "chat", should_search_products false.
- Questions livraison, retour, garantie, paiement: intent_type "faq", should_search_products false.
- Prix en euros: "900€" = 900, "1,5k" = 1500. "sous 900" donne max 900, "entre 300 et 500" donne min 300 et max 500.
- Utilise les messages précédents pour compléter une demande qui y fait référence ("et en bleu ?").

Exemple:
Message: "canapé d'angle gris en velours sous 1200€"
Réponse: {"intent_type":"product_search","should_search_products":true,"target_category":"canapé","target_subcategory":"canapé d'angle","target_colors":["gris"],"target_materials":["velours"],"target_styles":[],"target_room":null,"price_constraint":{"min":null,"max":1200},"special_features":[],"confidence":90}`

// BuildIntentPrompt assembles the classification request: schema, the last
// maxTurns conversation turns, then the message itself.
func BuildIntentPrompt(message string, turns []model.ConversationTurn, maxTurns int, temperature float64, maxTokens int) ClassifyRequest {
	system := fmt.Sprintf(intentSystemPrompt,
		strings.Join(vocab.Categories.Canonicals(), ", "),
		strings.Join(vocab.Subcategories.Canonicals(), ", "),
		strings.Join(vocab.Colors.Canonicals(), ", "),
		strings.Join(vocab.Materials.Canonicals(), ", "),
		strings.Join(vocab.Styles.Canonicals(), ", "),
		strings.Join(vocab.Rooms.Canonicals(), ", "),
		strings.Join(vocab.Features.Canonicals(), ", "),
	)

	recent := lastTurns(turns, maxTurns)
	messages := make([]ChatMessage, 0, len(recent)+1)
	for _, t := range recent {
		role := "user"
		if t.Role == "assistant" {
			role = "assistant"
		}
		messages = append(messages, ChatMessage{Role: role, Content: t.Content})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	return ClassifyRequest{
		System:      system,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

// lastTurns keeps the trailing n non-empty turns
func lastTurns(turns []model.ConversationTurn, n int) []model.ConversationTurn {
	kept := make([]model.ConversationTurn, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Content) != "" {
			kept = append(kept, t)
		}
	}
	if n >= 0 && len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return kept
}
