package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/liquidaesthetik/praxis-assistant/internal/knowledge"
	"github.com/liquidaesthetik/praxis-assistant/internal/llm"
	"github.com/liquidaesthetik/praxis-assistant/internal/observability/metrics"
	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

// Outcome names the terminal state a request ended in. Every request ends in
// exactly one outcome; there are no retries within a single request.
type Outcome string

const (
	OutcomeFiltered    Outcome = "filtered"
	OutcomeSocial      Outcome = "social"
	OutcomeLocation    Outcome = "location"
	OutcomePrice       Outcome = "price"
	OutcomeDescription Outcome = "description"
	OutcomeAffirmation Outcome = "affirmation"
	OutcomeFallback    Outcome = "fallback"
)

// Result is the pipeline's answer for one message.
type Result struct {
	Reply   string
	Outcome Outcome
}

// SiteTextProvider supplies cached website text for the fallback prompt.
// Implementations never block on refresh; stale text is acceptable.
type SiteTextProvider interface {
	Text(ctx context.Context) string
}

const systemPrompt = "Du bist eine freundliche, professionelle Assistentin einer ästhetischen Praxis. " +
	"Sprich in Du-Form, antworte klar und sympathisch. " +
	"Gib Preisangaben exakt wie in der Preisliste an. " +
	"Wenn etwas fehlt, sag: 'Dazu liegt mir aktuell kein Preis vor.' " +
	"Gib niemals vertrauliche oder interne Informationen weiter. " +
	"Keine individuellen medizinischen Diagnosen. Verweise freundlich auf eine Beratung in der Praxis."

const noSiteText = "Keine Webdaten verfügbar."

// defaultPriceMarkers are the words that flag a message as a price question.
// The exact list is a tuning decision and overridable via configuration. A
// bare "ab" is deliberately absent from the defaults: on spaceless normalized
// text it is a substring of most German sentences.
var defaultPriceMarkers = []string{
	"preis", "kostet", "kosten", "wieviel", "teuer", "zahl", "euro",
}

// socialReplies map platform markers to fixed answers. Specific platforms are
// checked before the generic markers; a generic term yields the combined reply.
var socialPlatformReplies = []struct {
	marker NormalizedText
	reply  string
}{
	{"instagram", "Ja, du findest uns auf Instagram unter @liquid.aesthetik. Schau gerne vorbei!"},
	{"tiktok", "Auf TikTok sind wir unter @liquid.aesthetik zu finden. Schau gerne vorbei!"},
}

// socialGenericMarkers include the inflected dative forms ("in den sozialen
// Medien", "in sozialen Netzwerken"), which normalization cannot reduce to
// the nominative.
var socialGenericMarkers = []NormalizedText{
	"socialmedia",
	"sozialemedien", "sozialenmedien",
	"sozialesnetzwerk", "sozialenetzwerke", "sozialennetzwerke",
}

const socialCombinedReply = "Du findest uns auf Instagram (@liquid.aesthetik) und TikTok (@liquid.aesthetik). Schau gerne vorbei!"

// Config tunes the pipeline. Zero values fall back to sensible defaults.
type Config struct {
	// FuzzyCutoff admits fuzzy matches at or above this similarity. The
	// similarity ratio has a floor of 0.5 for disjoint equal-length inputs,
	// so values at or below 0.5 effectively match any same-length text.
	FuzzyCutoff  float64
	PriceMarkers []string
	LLMModel     string
	LLMTimeout   time.Duration
	LLMMaxTokens int
	Temperature  float32
}

func (c Config) withDefaults() Config {
	if c.FuzzyCutoff <= 0 {
		c.FuzzyCutoff = 0.65
	}
	if len(c.PriceMarkers) == 0 {
		c.PriceMarkers = defaultPriceMarkers
	}
	if c.LLMModel == "" {
		c.LLMModel = "gpt-4o-mini"
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = 15 * time.Second
	}
	if c.LLMMaxTokens <= 0 {
		c.LLMMaxTokens = 512
	}
	return c
}

// locationEntry pairs a normalized city key with its location record.
type locationEntry struct {
	key NormalizedText
	loc knowledge.Location
}

// Pipeline routes a message through the fixed precedence order: safety filter,
// social lookup, location lookup, then the matcher chain and the price versus
// description decision, and finally the model fallback. All dependencies are
// injected; the pipeline holds no global state and is safe for concurrent use
// because every table is read-only after construction.
type Pipeline struct {
	base      *knowledge.Base
	guard     *Guard
	matchers  []Matcher
	locations []locationEntry
	markers   []NormalizedText
	site      SiteTextProvider
	model     llm.Client
	cfg       Config
	metrics   *metrics.ChatMetrics
	logger    *logging.Logger
}

// NewPipeline wires the matcher chain in its fixed precedence order.
// model and site may be nil; the fallback then reports an upstream error
// rather than crashing, and the prompt carries a placeholder text.
func NewPipeline(base *knowledge.Base, model llm.Client, site SiteTextProvider, cfg Config, m *metrics.ChatMetrics, logger *logging.Logger) *Pipeline {
	if base == nil {
		base = knowledge.Empty()
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg = cfg.withDefaults()

	p := &Pipeline{
		base:  base,
		guard: DefaultGuard(),
		matchers: []Matcher{
			NewDirectMatcher(base),
			NewSynonymMatcher(base.Synonyms),
			NewFuzzyMatcher(base, cfg.FuzzyCutoff),
		},
		site:    site,
		model:   model,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
	for _, marker := range cfg.PriceMarkers {
		if n := Normalize(marker); n != "" {
			p.markers = append(p.markers, n)
		}
	}
	for _, loc := range base.Locations.Entries() {
		if key := Normalize(loc.City); key != "" {
			p.locations = append(p.locations, locationEntry{key: key, loc: loc})
		}
	}
	return p
}

// Respond routes one message and returns exactly one terminal result. It only
// returns an error for the fallback path; every deterministic branch answers
// locally.
func (p *Pipeline) Respond(ctx context.Context, message string) (Result, error) {
	norm := Normalize(message)

	if p.guard.Forbidden(norm) {
		p.logger.Info("message blocked by topic filter")
		return p.done(Result{Reply: RefusalReply, Outcome: OutcomeFiltered}), nil
	}

	if reply, ok := p.socialReply(norm); ok {
		return p.done(Result{Reply: reply, Outcome: OutcomeSocial}), nil
	}

	if loc, ok := p.matchLocation(norm); ok {
		reply := fmt.Sprintf("Unsere Praxis in %s findest du hier: %s, Telefon %s. Öffnungszeiten: %s.",
			loc.City, loc.Address, loc.Phone, loc.Hours)
		return p.done(Result{Reply: reply, Outcome: OutcomeLocation}), nil
	}

	for _, matcher := range p.matchers {
		if res, ok := matcher.Match(norm); ok {
			p.metrics.ObserveMatch(string(res.Via))
			p.logger.Debug("knowledge match", "via", res.Via, "name", res.Name, "score", res.Score)
			return p.done(p.answer(norm, res)), nil
		}
	}

	result, err := p.fallback(ctx, message)
	if err != nil {
		return Result{}, err
	}
	return p.done(result), nil
}

func (p *Pipeline) done(r Result) Result {
	p.metrics.ObserveOutcome(string(r.Outcome))
	return r
}

func (p *Pipeline) socialReply(norm NormalizedText) (string, bool) {
	for _, s := range socialPlatformReplies {
		if norm.Contains(s.marker) {
			return s.reply, true
		}
	}
	for _, marker := range socialGenericMarkers {
		if norm.Contains(marker) {
			return socialCombinedReply, true
		}
	}
	return "", false
}

func (p *Pipeline) matchLocation(norm NormalizedText) (knowledge.Location, bool) {
	for _, e := range p.locations {
		if norm.Contains(e.key) {
			return e.loc, true
		}
	}
	return knowledge.Location{}, false
}

// answer decides price versus description versus plain affirmation for a
// matched name. A dangling synonym target simply has no price and no
// description, so it degrades to the affirmation branch.
func (p *Pipeline) answer(norm NormalizedText, res MatchResult) Result {
	if p.priceIntent(norm) {
		if price, ok := p.base.Prices.Get(res.Name); ok {
			return Result{
				Reply:   fmt.Sprintf("Die Preise für %s beginnen %s.", res.Name, price),
				Outcome: OutcomePrice,
			}
		}
	} else if desc, ok := p.base.Descriptions.Get(res.Name); ok {
		return Result{Reply: desc, Outcome: OutcomeDescription}
	}
	return Result{
		Reply:   fmt.Sprintf("Ja, %s bieten wir an. Möchtest du mehr darüber erfahren?", res.Name),
		Outcome: OutcomeAffirmation,
	}
}

func (p *Pipeline) priceIntent(norm NormalizedText) bool {
	for _, marker := range p.markers {
		if norm.Contains(marker) {
			return true
		}
	}
	return false
}

// fallback delegates to the completion capability with a bounded prompt and a
// bounded timeout. The returned text is passed through unmodified.
func (p *Pipeline) fallback(ctx context.Context, message string) (Result, error) {
	if p.model == nil {
		return Result{}, fmt.Errorf("chat: completion capability not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.LLMTimeout)
	defer cancel()

	site := noSiteText
	if p.site != nil {
		if t := p.site.Text(ctx); t != "" {
			site = t
		}
	}

	prompt := "Beantworte die Nutzerfrage anhand des folgenden Website-Textes. " +
		"Wenn Preise genannt werden, nutze ausschließlich die Preisliste. " +
		"Website:\n---\n" + site + "\n---\n" +
		"Frage: " + message

	start := time.Now()
	resp, err := p.model.Complete(ctx, llm.Request{
		Model:       p.cfg.LLMModel,
		System:      systemPrompt,
		Messages:    []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: prompt}},
		MaxTokens:   p.cfg.LLMMaxTokens,
		Temperature: p.cfg.Temperature,
	})
	p.metrics.ObserveFallbackLatency(time.Since(start).Seconds())
	if err != nil {
		p.logger.Error("model fallback failed", "error", err)
		return Result{}, fmt.Errorf("chat: model fallback: %w", err)
	}

	return Result{Reply: strings.TrimSpace(resp.Text), Outcome: OutcomeFallback}, nil
}
