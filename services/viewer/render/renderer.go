package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("viewer/render")

const defaultChartWidth = 40

// cardState is the per-metric state kept across refresh cycles: the last entry the
// card displayed and whether its display fallback was already logged
type cardState struct {
	entry          *common.MetricEntry
	fallbackLogged bool
}

// ArgsRenderer defines the renderer arguments
type ArgsRenderer struct {
	Out        io.Writer
	Charter    Charter
	ChartWidth int
}

type renderer struct {
	out        io.Writer
	charter    Charter
	chartWidth int
	cards      map[string]*cardState
	order      []string
}

// NewRenderer creates a terminal renderer. A nil charter is accepted: timeseries cards
// then degrade to the json display path.
func NewRenderer(args ArgsRenderer) (*renderer, error) {
	if args.Out == nil {
		return nil, errors.New("nil output writer")
	}

	chartWidth := args.ChartWidth
	if chartWidth <= 0 {
		chartWidth = defaultChartWidth
	}

	return &renderer{
		out:        args.Out,
		charter:    args.Charter,
		chartWidth: chartWidth,
		cards:      make(map[string]*cardState),
		order:      make([]string, 0),
	}, nil
}

// Seed pre-wires the card order from the client configuration, before the first fetch
func (r *renderer) Seed(definitions []common.MetricDefinition) {
	for _, definition := range definitions {
		r.ensureCard(definition.ID)
	}
}

// Render updates the fetched metrics' cards and draws one frame. Cards of metrics
// absent from this batch keep their previous content untouched.
func (r *renderer) Render(entries []common.MetricEntry) {
	for i := range entries {
		state := r.ensureCard(entries[i].Definition.ID)
		state.entry = &entries[i]
	}

	r.drawFrame("")
}

// RenderError draws a frame with the fetch error surfaced in place of fresh content,
// without discarding the already-known card state
func (r *renderer) RenderError(err error) {
	r.drawFrame(err.Error())
}

func (r *renderer) ensureCard(id string) *cardState {
	state, exists := r.cards[id]
	if !exists {
		state = &cardState{}
		r.cards[id] = state
		r.order = append(r.order, id)
	}

	return state
}

func (r *renderer) drawFrame(fetchError string) {
	buf := &bytes.Buffer{}

	if fetchError != "" {
		fmt.Fprintf(buf, "!! fetch failed: %s\n\n", fetchError)
	}

	for _, id := range r.order {
		state := r.cards[id]
		if state.entry == nil {
			fmt.Fprintf(buf, "=== %s ===\n%s\n\n", id, noDataPlaceholder)
			continue
		}

		buf.WriteString(r.renderCard(state))
		buf.WriteString("\n")
	}

	_, _ = r.out.Write(buf.Bytes())
}

func (r *renderer) renderCard(state *cardState) string {
	entry := state.entry
	definition := entry.Definition

	header := fmt.Sprintf("=== %s [%s] ===", definition.Name, definition.Category)
	if entry.Error != "" {
		header += " (stale: " + entry.Error + ")"
	}

	body := r.renderBody(state)

	timestampLine := ""
	if entry.Latest != nil {
		timestampLine = FormatTimestamp(entry.Latest.Timestamp) + "\n"
	}

	return header + "\n" + timestampLine + strings.TrimRight(body, "\n") + "\n"
}

// renderBody dispatches purely on the display type. Unsupported or unrenderable types
// fall back to the json path with a warning, never break the remaining metrics.
func (r *renderer) renderBody(state *cardState) string {
	entry := state.entry
	displayType := entry.Definition.Display.Type

	switch displayType {
	case common.DisplayTimeseries:
		if check.IfNil(r.charter) {
			r.logFallback(state, "charting unavailable")
			return renderJSON(entry.Latest)
		}

		return renderTimeseries(r.charter, entry.Definition.Display, *entry, r.chartWidth)
	case common.DisplayTable:
		return renderTable(entry.Definition.Display, entry.Latest)
	case common.DisplayJSON:
		return renderJSON(entry.Latest)
	default:
		r.logFallback(state, "unknown display type "+displayType)
		return renderJSON(entry.Latest)
	}
}

func (r *renderer) logFallback(state *cardState, reason string) {
	if state.fallbackLogged {
		return
	}

	state.fallbackLogged = true
	log.Warn("display degraded to json", "id", state.entry.Definition.ID, "reason", reason)
}

// renderJSON dumps the latest payload as indented JSON
func renderJSON(latest *common.Sample) string {
	if latest == nil || len(latest.Data) == 0 {
		return noDataPlaceholder
	}

	buf := &bytes.Buffer{}
	err := json.Indent(buf, latest.Data, "", "  ")
	if err != nil {
		return string(latest.Data)
	}

	return buf.String()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *renderer) IsInterfaceNil() bool {
	return r == nil
}
