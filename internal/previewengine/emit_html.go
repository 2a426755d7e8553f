package previewengine

import (
	"fmt"
	"html"
	"strings"
)

// Emit serializes the render tree into a standalone HTML document. Output is
// deterministic: identical trees produce byte-identical documents, with no
// timestamps and no generated identifiers. Every user-supplied string passes
// through esc before it reaches the markup.
func Emit(tree RenderTree) []byte {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width,initial-scale=1\">")
	fmt.Fprintf(&b, "<title>%s · Standard OS Preview</title>", esc(tree.SystemName))
	b.WriteString(previewCSS)
	b.WriteString("</head><body><main class=\"shell\">")

	writeStatusSection(&b, tree)
	writeOneThingSection(&b, tree.OneThing)
	writeSignalsSection(&b, tree.Signals)
	writeHistorySection(&b, tree.History)
	writeReasoningSection(&b, tree.Reasoning)

	if tree.SealLine != "" {
		fmt.Fprintf(&b, "<footer class=\"seal\">%s</footer>", esc(tree.SealLine))
	}
	writeEventTemplates(&b, tree.EventCards)
	writeHiddenPanel(&b, tree.Hidden)

	b.WriteString("</main>")
	if len(tree.DataBlock) > 0 {
		// The canonical payload travels inside the document so the external
		// viewer can step through events without re-parsing markup.
		// json.Marshal escapes < > & so the block cannot terminate itself.
		fmt.Fprintf(&b, "<script type=\"application/json\" id=\"preview-data\" data-schema-version=\"%s\">%s</script>", esc(tree.SchemaVersion), tree.DataBlock)
	}
	b.WriteString(viewerScript)
	b.WriteString("</body></html>")

	return []byte(b.String())
}

func writeStatusSection(b *strings.Builder, tree RenderTree) {
	s := tree.Status
	fmt.Fprintf(b, "<section class=\"section card hero\" id=\"section-status\" aria-labelledby=\"status-title\"><div class=\"hero-top\"><div><h1 id=\"status-title\">%s</h1>", esc(tree.Headline))
	if tree.Version != "" {
		fmt.Fprintf(b, "<p class=\"version\">v%s</p>", esc(tree.Version))
	}
	fmt.Fprintf(b, "</div><div class=\"status-chip %s\"><span class=\"dot\"></span><span class=\"status-label\">%s</span></div></div>", esc(s.Tone), esc(s.Label))
	fmt.Fprintf(b, "<p class=\"status-message\">%s</p>", esc(s.Message))
	if s.AttentionCount > 0 {
		fmt.Fprintf(b, "<p class=\"attention\">%d item(s) need attention</p>", s.AttentionCount)
	}
	b.WriteString("</section>")
}

func writeOneThingSection(b *strings.Builder, one OneThingSection) {
	b.WriteString("<section class=\"section card one-thing\" id=\"section-one-thing\" aria-labelledby=\"one-thing-title\">")
	fmt.Fprintf(b, "<p class=\"kicker\">%s</p>", esc(one.Kicker))
	if one.Present {
		fmt.Fprintf(b, "<div class=\"one-thing-row\"><span class=\"one-thing-icon\">%s</span><h2 id=\"one-thing-title\">%s</h2><span class=\"pill warn\">%s →</span></div>", esc(one.Icon), esc(one.Title), esc(one.ActionLabel))
	} else {
		b.WriteString("<p class=\"empty\" id=\"one-thing-title\">Nothing scheduled.</p>")
	}
	b.WriteString("</section>")
}

func writeSignalsSection(b *strings.Builder, s SignalSection) {
	fmt.Fprintf(b, "<section class=\"section\" id=\"section-signals\" aria-label=\"%s\"><div class=\"signal-grid\" style=\"--signal-columns:%d\">", esc(s.Title), s.Columns)
	if len(s.Cards) == 0 {
		b.WriteString("<p class=\"empty\">No signals reported.</p>")
	}
	for _, c := range s.Cards {
		fmt.Fprintf(b, "<article class=\"card signal %s\"><div class=\"signal-top\"><span class=\"signal-icon\">%s</span><span class=\"signal-state\">%s</span></div><h3>%s</h3><p class=\"signal-value\">%s</p>",
			esc(c.Tone), esc(c.Icon), esc(string(c.State)), esc(c.Title), esc(c.Value))
		if c.Progress > 0 {
			fmt.Fprintf(b, "<div class=\"bar\"><span style=\"width:%d%%\"></span></div>", c.Progress)
		}
		b.WriteString("</article>")
	}
	b.WriteString("</div></section>")
}

func writeHistorySection(b *strings.Builder, h HistorySection) {
	fmt.Fprintf(b, "<section class=\"section card\" id=\"section-history\" aria-labelledby=\"history-title\"><h2 id=\"history-title\">📜 %s</h2>", esc(h.Title))
	if len(h.Rows) == 0 {
		b.WriteString("<p class=\"empty\">No recent activity.</p>")
	} else {
		b.WriteString("<ul class=\"history\">")
		for _, r := range h.Rows {
			fmt.Fprintf(b, "<li><span class=\"time mono\">%s</span><span class=\"event\">%s</span><span class=\"pill %s\">%s</span></li>",
				esc(r.Time), esc(r.Event), esc(r.Tone), esc(string(r.State)))
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</section>")
}

func writeReasoningSection(b *strings.Builder, r ReasoningSection) {
	fmt.Fprintf(b, "<section class=\"section card\" id=\"section-reasoning\" aria-labelledby=\"reasoning-title\"><h2 id=\"reasoning-title\">💡 %s</h2>", esc(r.Title))
	if r.Coverage != "" {
		fmt.Fprintf(b, "<p class=\"coverage\">%s</p>", esc(r.Coverage))
	}
	if r.Notes != "" {
		fmt.Fprintf(b, "<p class=\"note\">%s</p>", esc(r.Notes))
	}
	if len(r.Groups) == 0 && r.Coverage == "" && r.Notes == "" {
		b.WriteString("<p class=\"empty\">No reasoning recorded.</p>")
	}
	for _, g := range r.Groups {
		fmt.Fprintf(b, "<div class=\"stage-group\"><h4><span class=\"stage-dot\"></span>%s <span class=\"stage-no mono\">Stage %d</span></h4><ul>", esc(g.Title), g.Stage)
		for _, item := range g.Items {
			fmt.Fprintf(b, "<li>%s</li>", esc(item))
		}
		b.WriteString("</ul></div>")
	}
	b.WriteString("</section>")
}

// writeEventTemplates emits the per-event cards inside an inert <template>
// element. They are not one of the five visible sections; the external
// viewer clones them for interactive stepping.
func writeEventTemplates(b *strings.Builder, cards []EventCard) {
	b.WriteString("<template id=\"event-cards\">")
	for _, c := range cards {
		writeEventCard(b, c)
	}
	b.WriteString("</template>")
}

func writeEventCard(b *strings.Builder, c EventCard) {
	fmt.Fprintf(b, "<article class=\"card event-card\" data-index=\"%d\" data-type=\"%s\"><div class=\"event-head\"><h3><span class=\"event-no mono\">#%d</span> %s</h3><div class=\"badges\"><span class=\"badge\">Stage %d</span>",
		c.Index, esc(c.Type), c.Index, esc(c.Title), c.Stage)
	if c.Badge.Present {
		fmt.Fprintf(b, "<span class=\"badge badge-%s\">%s</span>", esc(c.Badge.Tone), esc(c.Badge.Label))
	}
	fmt.Fprintf(b, "</div></div><p class=\"desc\">%s</p>", esc(c.Description))
	if len(c.Details) > 0 {
		b.WriteString("<dl class=\"event-meta\">")
		for _, d := range c.Details {
			fmt.Fprintf(b, "<dt>%s</dt><dd>%s</dd>", esc(d.Label), esc(d.Value))
		}
		b.WriteString("</dl>")
	}
	b.WriteString("</article>")
}

func writeHiddenPanel(b *strings.Builder, p HiddenPanel) {
	b.WriteString("<button class=\"joe-toggle\" id=\"joe-toggle\" type=\"button\">🧠 Developer Mode</button>")
	fmt.Fprintf(b, "<aside class=\"joe-panel\" id=\"joe-panel\" hidden aria-label=\"%s\"><div class=\"joe-head\"><h3>🧠 %s</h3><p class=\"joe-disclaimer\">%s</p></div><div class=\"joe-body\">",
		esc(p.Title), esc(p.Title), esc(p.Disclaimer))
	for _, g := range p.Groups {
		fmt.Fprintf(b, "<div class=\"joe-group\"><h4>%s <span class=\"mono\">Stage %d</span></h4>", esc(g.Title), g.Stage)
		if len(g.Cards) == 0 {
			b.WriteString("<p class=\"empty\">No data recorded</p>")
		}
		for _, c := range g.Cards {
			writeEventCard(b, c)
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div></aside>")
}

func esc(s string) string {
	return html.EscapeString(s)
}

const previewCSS = `<style>
:root {
  --bg: #f5f7fa;
  --panel: #ffffff;
  --ink: #111827;
  --muted: #6b7280;
  --line: #e5e7eb;
  --ok: #059669;
  --ok-bg: #ecfdf5;
  --warn: #b45309;
  --warn-bg: #fffbeb;
  --action: #b91c1c;
  --action-bg: #fef2f2;
  --radius: 12px;
  --shadow: 0 1px 3px rgba(0, 0, 0, 0.06);
}
* { box-sizing: border-box; }
body {
  margin: 0;
  background: var(--bg);
  color: var(--ink);
  font-family: "Inter", -apple-system, "Segoe UI", system-ui, sans-serif;
  line-height: 1.55;
}
.shell { max-width: 1080px; margin: 0 auto; padding: 22px; }
.card {
  background: var(--panel);
  border: 1px solid var(--line);
  border-radius: var(--radius);
  box-shadow: var(--shadow);
  padding: 16px;
}
.section { margin-bottom: 16px; }
h1 { margin: 0; font-size: 1.35rem; }
h2 { margin: 0 0 10px; font-size: 1rem; }
h3 { margin: 0; font-size: 0.92rem; }
h4 { margin: 0 0 6px; font-size: 0.85rem; }
.version { margin: 2px 0 0; color: var(--muted); font-size: 0.78rem; }
.hero-top { display: flex; align-items: center; justify-content: space-between; gap: 12px; }
.status-chip {
  display: inline-flex;
  align-items: center;
  gap: 7px;
  border: 1px solid var(--line);
  border-radius: 999px;
  padding: 0.3rem 0.8rem;
  font-size: 0.82rem;
  font-weight: 600;
}
.status-chip .dot { width: 9px; height: 9px; border-radius: 999px; }
.status-chip.ok { background: var(--ok-bg); color: var(--ok); }
.status-chip.ok .dot { background: var(--ok); }
.status-chip.warn { background: var(--warn-bg); color: var(--warn); }
.status-chip.warn .dot { background: var(--warn); }
.status-chip.action { background: var(--action-bg); color: var(--action); }
.status-chip.action .dot { background: var(--action); }
.status-message { margin: 10px 0 0; color: var(--muted); font-size: 0.9rem; }
.attention { margin: 4px 0 0; color: var(--warn); font-size: 0.84rem; font-weight: 600; }
.one-thing { background: #fff9e5; }
.kicker {
  margin: 0 0 6px;
  color: var(--warn);
  font-size: 0.7rem;
  font-weight: 700;
  text-transform: uppercase;
  letter-spacing: 0.06em;
}
.one-thing-row { display: flex; align-items: center; gap: 10px; }
.one-thing-icon { font-size: 1.5rem; }
.signal-grid {
  display: grid;
  grid-template-columns: repeat(var(--signal-columns, 4), minmax(0, 1fr));
  gap: 12px;
}
.signal h3 { margin: 8px 0 2px; }
.signal-top { display: flex; align-items: center; justify-content: space-between; }
.signal-state { color: var(--muted); font-size: 0.7rem; font-weight: 700; text-transform: uppercase; }
.signal-value { margin: 0; font-size: 1.5rem; font-weight: 700; }
.bar { margin-top: 8px; height: 6px; border-radius: 999px; background: var(--line); overflow: hidden; }
.bar span { display: block; height: 100%; background: var(--ok); }
.signal.warn { border-color: var(--warn); }
.signal.action { border-color: var(--action); }
.history { list-style: none; margin: 0; padding: 0; }
.history li {
  display: flex;
  align-items: center;
  gap: 12px;
  padding: 7px 0;
  border-bottom: 1px solid var(--line);
  font-size: 0.88rem;
}
.history li:last-child { border-bottom: none; }
.history .time { color: var(--muted); min-width: 52px; font-size: 0.78rem; }
.history .event { flex: 1; }
.pill {
  border-radius: 999px;
  padding: 0.14rem 0.6rem;
  font-size: 0.74rem;
  font-weight: 700;
  border: 1px solid var(--line);
}
.pill.ok { background: var(--ok-bg); color: var(--ok); }
.pill.warn { background: var(--warn-bg); color: var(--warn); }
.pill.action { background: var(--action-bg); color: var(--action); }
.coverage { margin: 0 0 6px; background: #eff6ff; border-radius: 8px; padding: 9px; font-size: 0.84rem; color: #1e3a8a; }
.note { color: var(--muted); font-size: 0.86rem; margin: 0 0 8px; }
.empty { color: var(--muted); font-style: italic; font-size: 0.84rem; margin: 0; }
.stage-group { margin-top: 10px; }
.stage-group ul { margin: 4px 0 0 14px; padding: 0; font-size: 0.82rem; color: var(--muted); }
.stage-dot { display: inline-block; width: 7px; height: 7px; border-radius: 999px; background: #3b82f6; margin-right: 6px; }
.stage-no { color: var(--muted); font-weight: 400; font-size: 0.74rem; }
.mono { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; }
.seal { margin-top: 18px; color: var(--muted); font-size: 0.74rem; text-align: center; }
.event-card { margin-bottom: 10px; }
.event-head { display: flex; align-items: flex-start; justify-content: space-between; gap: 10px; }
.event-no { color: var(--muted); font-size: 0.8rem; }
.badges { display: flex; gap: 6px; flex-wrap: wrap; }
.badge {
  border: 1px solid var(--line);
  border-radius: 999px;
  padding: 0.12rem 0.55rem;
  font-size: 0.72rem;
  font-weight: 700;
  color: var(--muted);
}
.badge-warn { border-color: var(--warn); color: var(--warn); background: var(--warn-bg); }
.badge-action { border-color: var(--action); color: var(--action); background: var(--action-bg); }
.desc { margin: 8px 0 0; font-size: 0.86rem; color: var(--muted); }
.event-meta { margin: 8px 0 0; font-size: 0.8rem; }
.event-meta dt { font-weight: 700; }
.event-meta dd { margin: 0 0 4px; color: var(--muted); }
.joe-toggle {
  position: fixed;
  bottom: 20px;
  right: 20px;
  background: #1f2937;
  color: #ffffff;
  border: none;
  border-radius: 999px;
  padding: 10px 18px;
  font-size: 0.8rem;
  font-weight: 600;
  cursor: pointer;
  box-shadow: 0 4px 12px rgba(0, 0, 0, 0.2);
}
.joe-panel {
  position: fixed;
  bottom: 64px;
  right: 20px;
  width: 380px;
  max-height: 480px;
  overflow-y: auto;
  background: var(--panel);
  border: 1px solid var(--line);
  border-radius: var(--radius);
  box-shadow: 0 10px 30px rgba(0, 0, 0, 0.2);
}
.joe-head { background: #1f2937; color: #ffffff; padding: 14px 16px; }
.joe-head h3 { margin: 0 0 6px; }
.joe-disclaimer { margin: 0; color: #d1d5db; font-size: 0.74rem; }
.joe-body { padding: 14px; }
.joe-group { margin-bottom: 14px; }
.joe-group h4 { border-bottom: 1px solid var(--line); padding-bottom: 4px; }
@media (max-width: 900px) {
  .signal-grid { grid-template-columns: repeat(2, minmax(0, 1fr)); }
  .joe-panel { width: calc(100vw - 40px); }
}
</style>`

// viewerScript carries only the panel toggle affordances. Interactive
// stepping belongs to the external viewer, which reads #preview-data.
const viewerScript = `<script>(function(){var p=document.getElementById('joe-panel');var b=document.getElementById('joe-toggle');if(!p){return}function t(){p.hidden=!p.hidden}if(b){b.addEventListener('click',t)}if(window.location.search.indexOf('dev=true')!==-1){p.hidden=false}document.addEventListener('keydown',function(e){if((e.metaKey||e.ctrlKey)&&e.shiftKey&&e.key==='J'){t();e.preventDefault()}})})();</script>`
