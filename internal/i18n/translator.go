// Package i18n renders parameterized engine messages into user-facing text.
package i18n

import (
	"strings"

	"github.com/mintleaf/mintleaf-backend/internal/engine"
)

// templates holds the message templates per language. Placeholders use
// {name} syntax and are substituted from the params map. English is the
// fallback for any language without its own set.
var templates = map[string]map[engine.MessageKind]string{
	"en": {
		engine.MsgTrendUp:   "Your {category} total is up {change} from last period ({amount} this period)",
		engine.MsgTrendDown: "Your {category} total is down {change} from last period ({amount} this period)",
		engine.MsgOverspend: "You spent {spent} on {category}, over your {budget} budget",
		engine.MsgAnomaly:   "Unusually large {category} expense of {amount} (average is {average})",
		engine.MsgMilestone: "Goal \"{goal}\" reached {percent} of its {target} target",
	},
	"de": {
		engine.MsgTrendUp:   "Ihr Gesamtbetrag für {category} ist um {change} gestiegen ({amount} in diesem Zeitraum)",
		engine.MsgTrendDown: "Ihr Gesamtbetrag für {category} ist um {change} gesunken ({amount} in diesem Zeitraum)",
		engine.MsgOverspend: "Sie haben {spent} für {category} ausgegeben und Ihr Budget von {budget} überschritten",
		engine.MsgAnomaly:   "Ungewöhnlich hohe Ausgabe für {category}: {amount} (Durchschnitt {average})",
		engine.MsgMilestone: "Sparziel \"{goal}\" hat {percent} von {target} erreicht",
	},
	"es": {
		engine.MsgTrendUp:   "Tu total en {category} subió un {change} respecto al período anterior ({amount} este período)",
		engine.MsgTrendDown: "Tu total en {category} bajó un {change} respecto al período anterior ({amount} este período)",
		engine.MsgOverspend: "Gastaste {spent} en {category}, superando tu presupuesto de {budget}",
		engine.MsgAnomaly:   "Gasto inusualmente alto en {category}: {amount} (el promedio es {average})",
		engine.MsgMilestone: "La meta \"{goal}\" alcanzó el {percent} de su objetivo de {target}",
	},
	"fr": {
		engine.MsgTrendUp:   "Votre total {category} a augmenté de {change} par rapport à la période précédente ({amount})",
		engine.MsgTrendDown: "Votre total {category} a baissé de {change} par rapport à la période précédente ({amount})",
		engine.MsgOverspend: "Vous avez dépensé {spent} en {category}, au-delà de votre budget de {budget}",
		engine.MsgAnomaly:   "Dépense {category} inhabituellement élevée de {amount} (moyenne {average})",
		engine.MsgMilestone: "L'objectif \"{goal}\" a atteint {percent} de sa cible de {target}",
	},
}

// Translator implements engine.Renderer with the static template table.
type Translator struct {
	resolver *engine.LocaleResolver
}

// New creates a translator sharing the engine's locale resolver.
func New(resolver *engine.LocaleResolver) *Translator {
	return &Translator{resolver: resolver}
}

// Render substitutes params into the template for the locale's language.
// Unknown kinds render as the kind name so a missing template is visible
// instead of silent.
func (t *Translator) Render(kind engine.MessageKind, params engine.MessageParams, locale string) string {
	bundle, _ := t.resolver.Resolve(locale)

	set, ok := templates[bundle.Language]
	if !ok {
		set = templates["en"]
	}
	tmpl, ok := set[kind]
	if !ok {
		tmpl, ok = templates["en"][kind]
		if !ok {
			return string(kind)
		}
	}

	pairs := make([]string, 0, len(params)*2)
	for key, value := range params {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
