package vocab

// Subcategories are checked before categories; each carries its parent.
var Subcategories = NewVocabulary([]Term{
	{Canonical: "canapé d'angle", Synonyms: []string{"canape angle", "corner sofa", "sectional"}, Parent: "canapé"},
	{Canonical: "canapé convertible", Synonyms: []string{"canape lit", "sofa bed", "clic clac", "bz"}, Parent: "canapé"},
	{Canonical: "table basse", Synonyms: []string{"coffee table", "table de salon"}, Parent: "table"},
	{Canonical: "table à manger", Synonyms: []string{"table a manger", "dining table", "table de salle a manger"}, Parent: "table"},
	{Canonical: "table de chevet", Synonyms: []string{"chevet", "nightstand", "bedside table"}, Parent: "table"},
	{Canonical: "chaise de bureau", Synonyms: []string{"office chair", "fauteuil de bureau"}, Parent: "chaise"},
	{Canonical: "tabouret de bar", Synonyms: []string{"bar stool", "tabouret haut"}, Parent: "chaise"},
	{Canonical: "lit double", Synonyms: []string{"double bed", "lit 2 places", "queen bed", "king bed"}, Parent: "lit"},
	{Canonical: "lit enfant", Synonyms: []string{"kids bed", "lit superpose", "bunk bed"}, Parent: "lit"},
	{Canonical: "meuble tv", Synonyms: []string{"tv stand", "banc tv", "meuble television"}, Parent: "rangement"},
})

// Categories is the closed furniture taxonomy with synonyms
var Categories = NewVocabulary([]Term{
	{Canonical: "canapé", Synonyms: []string{"canape", "sofa", "couch", "divan", "sofa"}},
	{Canonical: "fauteuil", Synonyms: []string{"armchair", "bergere", "accent chair"}},
	{Canonical: "lit", Synonyms: []string{"bed", "sommier", "tete de lit", "headboard"}},
	{Canonical: "matelas", Synonyms: []string{"mattress"}},
	{Canonical: "table", Synonyms: []string{"tables"}},
	{Canonical: "chaise", Synonyms: []string{"chair", "tabouret", "stool", "banc", "bench"}},
	{Canonical: "bureau", Synonyms: []string{"desk", "secretaire"}},
	{Canonical: "armoire", Synonyms: []string{"wardrobe", "penderie", "dressing"}},
	{Canonical: "commode", Synonyms: []string{"dresser", "chest of drawers"}},
	{Canonical: "rangement", Synonyms: []string{"etagere", "bibliotheque", "shelf", "bookcase", "shelving", "buffet", "sideboard", "vaisselier"}},
	{Canonical: "luminaire", Synonyms: []string{"lampe", "lamp", "suspension", "lampadaire", "applique", "lighting"}},
	{Canonical: "tapis", Synonyms: []string{"rug", "carpet"}},
	{Canonical: "miroir", Synonyms: []string{"mirror"}},
	{Canonical: "décoration", Synonyms: []string{"decoration", "coussin", "cushion", "vase", "plaid", "cadre"}},
})

// Colors is the closed color vocabulary
var Colors = NewVocabulary([]Term{
	{Canonical: "beige", Synonyms: []string{"sable", "sand", "ecru"}},
	{Canonical: "blanc", Synonyms: []string{"white", "blanche", "ivoire", "ivory"}},
	{Canonical: "noir", Synonyms: []string{"black", "noire"}},
	{Canonical: "gris", Synonyms: []string{"grey", "gray", "grise", "anthracite"}},
	{Canonical: "bleu", Synonyms: []string{"blue", "bleue", "marine", "navy"}},
	{Canonical: "vert", Synonyms: []string{"green", "verte", "sauge", "sage", "olive"}},
	{Canonical: "rouge", Synonyms: []string{"red", "bordeaux", "burgundy"}},
	{Canonical: "jaune", Synonyms: []string{"yellow", "moutarde", "mustard", "ocre"}},
	{Canonical: "marron", Synonyms: []string{"brown", "chocolat", "cognac", "camel"}},
	{Canonical: "rose", Synonyms: []string{"pink", "blush"}},
	{Canonical: "orange", Synonyms: []string{"terracotta", "rouille", "rust"}},
	{Canonical: "violet", Synonyms: []string{"purple", "prune", "mauve"}},
	{Canonical: "naturel", Synonyms: []string{"natural", "bois clair", "light wood"}},
	{Canonical: "crème", Synonyms: []string{"creme", "cream"}},
	{Canonical: "taupe", Synonyms: []string{"greige"}},
	{Canonical: "doré", Synonyms: []string{"dore", "gold", "laiton", "brass"}},
})

// Materials is the closed material vocabulary
var Materials = NewVocabulary([]Term{
	{Canonical: "bois", Synonyms: []string{"wood", "wooden", "bois massif", "solid wood"}},
	{Canonical: "chêne", Synonyms: []string{"chene", "oak"}},
	{Canonical: "noyer", Synonyms: []string{"walnut"}},
	{Canonical: "pin", Synonyms: []string{"pine"}},
	{Canonical: "métal", Synonyms: []string{"metal", "acier", "steel", "fer", "iron"}},
	{Canonical: "verre", Synonyms: []string{"glass"}},
	{Canonical: "marbre", Synonyms: []string{"marble"}},
	{Canonical: "cuir", Synonyms: []string{"leather", "simili cuir", "faux leather"}},
	{Canonical: "tissu", Synonyms: []string{"fabric", "textile"}},
	{Canonical: "velours", Synonyms: []string{"velvet", "velours cotele", "corduroy"}},
	{Canonical: "lin", Synonyms: []string{"linen"}},
	{Canonical: "rotin", Synonyms: []string{"rattan", "cannage", "osier", "wicker"}},
	{Canonical: "bambou", Synonyms: []string{"bamboo"}},
	{Canonical: "bouclette", Synonyms: []string{"boucle"}},
	{Canonical: "coton", Synonyms: []string{"cotton"}},
	{Canonical: "laine", Synonyms: []string{"wool"}},
	{Canonical: "céramique", Synonyms: []string{"ceramique", "ceramic"}},
	{Canonical: "plastique", Synonyms: []string{"plastic", "polypropylene"}},
})

// Styles is the closed style vocabulary
var Styles = NewVocabulary([]Term{
	{Canonical: "scandinave", Synonyms: []string{"scandinavian", "nordique", "nordic", "scandi"}},
	{Canonical: "moderne", Synonyms: []string{"modern"}},
	{Canonical: "contemporain", Synonyms: []string{"contemporary", "contemporaine"}},
	{Canonical: "industriel", Synonyms: []string{"industrial", "industrielle", "loft"}},
	{Canonical: "vintage", Synonyms: []string{"retro", "mid century", "annees 50", "annees 70"}},
	{Canonical: "classique", Synonyms: []string{"classic", "traditionnel", "traditional"}},
	{Canonical: "bohème", Synonyms: []string{"boheme", "boho", "boheme chic"}},
	{Canonical: "minimaliste", Synonyms: []string{"minimalist", "epure", "minimal"}},
	{Canonical: "rustique", Synonyms: []string{"rustic", "campagne", "farmhouse"}},
	{Canonical: "art déco", Synonyms: []string{"art deco"}},
	{Canonical: "japandi", Synonyms: []string{"japonais", "japanese"}},
})

// Rooms is the closed room taxonomy
var Rooms = NewVocabulary([]Term{
	{Canonical: "salon", Synonyms: []string{"living room", "living", "sejour", "lounge"}},
	{Canonical: "chambre", Synonyms: []string{"bedroom"}},
	{Canonical: "chambre d'enfant", Synonyms: []string{"chambre enfant", "kids room", "nursery", "chambre bebe"}},
	{Canonical: "salle à manger", Synonyms: []string{"salle a manger", "dining room"}},
	{Canonical: "cuisine", Synonyms: []string{"kitchen"}},
	{Canonical: "salle de bain", Synonyms: []string{"salle de bains", "bathroom"}},
	{Canonical: "entrée", Synonyms: []string{"entree", "hallway", "couloir"}},
	{Canonical: "espace de travail", Synonyms: []string{"home office", "teletravail"}},
	{Canonical: "extérieur", Synonyms: []string{"exterieur", "jardin", "terrasse", "balcon", "outdoor", "garden", "patio"}},
})

// Features is the closed special-feature vocabulary
var Features = NewVocabulary([]Term{
	{Canonical: "convertible", Synonyms: []string{"canape lit", "sofa bed", "clic clac", "bz", "transformable"}},
	{Canonical: "storage", Synonyms: []string{"rangement", "coffre", "tiroir", "tiroirs", "drawers", "avec rangement"}},
	{Canonical: "reversible", Synonyms: []string{"meridienne reversible", "angle reversible"}},
	{Canonical: "modular", Synonyms: []string{"modulable", "modulaire"}},
	{Canonical: "extendable", Synonyms: []string{"extensible", "rallonge", "allonge"}},
	{Canonical: "foldable", Synonyms: []string{"pliable", "pliant", "folding"}},
	{Canonical: "removable_cover", Synonyms: []string{"dehoussable", "housse amovible", "removable cover"}},
	{Canonical: "reclining", Synonyms: []string{"relax", "relaxation", "inclinable", "recliner"}},
})

// Greetings are the words a pure greeting or pleasantry may consist of
var Greetings = map[string]bool{
	"bonjour": true, "bonsoir": true, "salut": true, "coucou": true,
	"hello": true, "hi": true, "hey": true, "yo": true,
	"merci": true, "thanks": true, "thank": true,
}

// Pleasantries may accompany a greeting without turning it into a query
var Pleasantries = map[string]bool{
	"ca": true, "va": true, "comment": true, "allez": true, "vous": true, "tu": true,
	"bonne": true, "journee": true, "soiree": true, "good": true, "morning": true,
	"evening": true, "you": true, "how": true, "are": true, "beaucoup": true,
	"a": true, "toi": true, "there": true, "madame": true, "monsieur": true,
}

// FAQKeywords route a message to the faq intent when no product is named
var FAQKeywords = []string{
	"livraison", "delivery", "livrer", "retour", "retourner", "return", "rembourse", "remboursement", "refund",
	"garantie", "warranty", "paiement", "payer", "payment", "horaires", "opening hours", "sav",
	"suivi de commande", "ma commande", "order status", "frais de port", "shipping",
}

// StyleAdviceKeywords mark requests for styling help
var StyleAdviceKeywords = []string{
	"conseil", "conseils", "advice", "idee", "idees", "idea", "ideas", "inspiration",
	"assortir", "associer", "aller avec", "match with", "goes with", "quelle couleur", "which color",
}

// RoomPlanningKeywords mark requests to furnish or lay out a room
var RoomPlanningKeywords = []string{
	"amenager", "amenagement", "meubler", "furnish", "decorer", "agencer", "agencement",
	"plan my", "layout", "refaire mon", "refaire ma",
}

// StopWords are ignored by the lexical overlap bonus
var StopWords = map[string]bool{
	"je": true, "tu": true, "il": true, "elle": true, "nous": true, "vous": true, "ils": true,
	"un": true, "une": true, "des": true, "les": true, "le": true, "la": true, "de": true, "du": true,
	"pour": true, "avec": true, "sans": true, "dans": true, "sur": true, "mon": true, "ma": true, "mes": true,
	"est": true, "que": true, "qui": true, "quel": true, "quelle": true, "cherche": true, "recherche": true,
	"voudrais": true, "veux": true, "besoin": true, "sous": true, "moins": true, "plus": true, "entre": true,
	"the": true, "and": true, "for": true, "with": true, "looking": true, "want": true, "need": true,
	"under": true, "below": true, "max": true, "euros": true, "eur": true, "budget": true, "avez": true,
	"auriez": true, "pas": true, "tres": true, "bien": true, "something": true, "some": true,
}
