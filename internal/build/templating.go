package build

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/guide-inc-org/guidebook"
)

var (
	tmplTagPattern   = regexp.MustCompile(`\{%\s*(if|elif|else|endif|for|endfor)\b([^%]*)%\}`)
	scopedVarPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}`)
)

// expandTemplates evaluates {% if %}/{% elif %}/{% else %} conditionals and
// {% for %} loops against the config's variables map. Loop bodies may use
// {{ name }} and {{ loop.index }}; {{ book.key }} references are left for
// expandVariables, which runs after. Fenced code blocks are never templated
// so documentation about the syntax stays literal. A malformed segment warns
// and is emitted unchanged.
func expandTemplates(content string, cfg *guidebook.Config, warn func(string)) string {
	if !strings.Contains(content, "{%") {
		return content
	}

	var out strings.Builder
	var segment strings.Builder
	flush := func() {
		out.WriteString(renderSegment(segment.String(), cfg, warn))
		segment.Reset()
	}

	inFence := false
	for _, line := range strings.SplitAfter(content, "\n") {
		if fenceDelim.MatchString(line) {
			if !inFence {
				flush()
			}
			inFence = !inFence
			out.WriteString(line)
			continue
		}
		if inFence {
			out.WriteString(line)
		} else {
			segment.WriteString(line)
		}
	}
	flush()
	return out.String()
}

func renderSegment(segment string, cfg *guidebook.Config, warn func(string)) string {
	if !strings.Contains(segment, "{%") {
		return segment
	}
	tokens := lexTemplate(segment)
	var b strings.Builder
	if _, err := renderTokens(tokens, 0, nil, cfg, tmplScope{}, &b); err != nil {
		warn(fmt.Sprintf("template error: %v", err))
		return segment
	}
	return b.String()
}

// tmplToken is either a literal text run or a control tag with its argument.
type tmplToken struct {
	kind string
	arg  string
	text string
}

func lexTemplate(content string) []tmplToken {
	var tokens []tmplToken
	last := 0
	for _, m := range tmplTagPattern.FindAllStringSubmatchIndex(content, -1) {
		if m[0] > last {
			tokens = append(tokens, tmplToken{kind: "text", text: content[last:m[0]]})
		}
		tokens = append(tokens, tmplToken{
			kind: content[m[2]:m[3]],
			arg:  strings.TrimSpace(content[m[4]:m[5]]),
		})
		last = m[1]
	}
	if last < len(content) {
		tokens = append(tokens, tmplToken{kind: "text", text: content[last:]})
	}
	return tokens
}

// tmplScope holds loop-local bindings layered over the config variables.
type tmplScope map[string]any

// renderTokens renders from pos until a stop-kind tag at the current nesting
// level and returns its index, or len(tokens) when stops is nil.
func renderTokens(tokens []tmplToken, pos int, stops map[string]bool, cfg *guidebook.Config, scope tmplScope, out *strings.Builder) (int, error) {
	i := pos
	for i < len(tokens) {
		tok := tokens[i]
		switch {
		case tok.kind == "text":
			out.WriteString(substituteScoped(tok.text, scope))
			i++
		case tok.kind == "if":
			next, err := renderIf(tokens, i, cfg, scope, out)
			if err != nil {
				return 0, err
			}
			i = next
		case tok.kind == "for":
			next, err := renderFor(tokens, i, cfg, scope, out)
			if err != nil {
				return 0, err
			}
			i = next
		case stops[tok.kind]:
			return i, nil
		default:
			return 0, fmt.Errorf("unexpected {%% %s %%}", tok.kind)
		}
	}
	if len(stops) > 0 {
		return 0, fmt.Errorf("unclosed block")
	}
	return i, nil
}

// renderIf evaluates an if/elif/else chain and emits the first branch whose
// condition holds. Every branch is parsed so the chain's end is found even
// when an earlier branch was taken.
func renderIf(tokens []tmplToken, pos int, cfg *guidebook.Config, scope tmplScope, out *strings.Builder) (int, error) {
	taken := false
	cond := evalCondition(tokens[pos].arg, cfg, scope)
	i := pos + 1
	stops := map[string]bool{"elif": true, "else": true, "endif": true}

	for {
		var body strings.Builder
		end, err := renderTokens(tokens, i, stops, cfg, scope, &body)
		if err != nil {
			return 0, err
		}
		if cond && !taken {
			out.WriteString(body.String())
			taken = true
		}
		switch tokens[end].kind {
		case "endif":
			return end + 1, nil
		case "elif":
			cond = evalCondition(tokens[end].arg, cfg, scope)
			i = end + 1
		case "else":
			cond = true
			i = end + 1
			stops = map[string]bool{"endif": true}
		}
	}
}

// renderFor emits the loop body once per element of the named list variable,
// binding the loop name and a loop.index counter into the scope. A missing
// or non-list value yields zero iterations.
func renderFor(tokens []tmplToken, pos int, cfg *guidebook.Config, scope tmplScope, out *strings.Builder) (int, error) {
	name, listExpr, ok := strings.Cut(tokens[pos].arg, " in ")
	if !ok {
		return 0, fmt.Errorf("malformed {%% for %s %%}", tokens[pos].arg)
	}
	name = strings.TrimSpace(name)

	end, err := findLoopEnd(tokens, pos)
	if err != nil {
		return 0, err
	}

	var list []any
	if v, found := lookupValue(strings.TrimSpace(listExpr), cfg, scope); found {
		list, _ = v.([]any)
	}

	stops := map[string]bool{"endfor": true}
	for idx, item := range list {
		child := make(tmplScope, len(scope)+2)
		for k, v := range scope {
			child[k] = v
		}
		child[name] = item
		child["loop"] = map[string]any{"index": idx + 1, "index0": idx}
		if _, err := renderTokens(tokens, pos+1, stops, cfg, child, out); err != nil {
			return 0, err
		}
	}
	return end + 1, nil
}

// findLoopEnd locates the endfor matching the for tag at pos.
func findLoopEnd(tokens []tmplToken, pos int) (int, error) {
	depth := 0
	for i := pos + 1; i < len(tokens); i++ {
		switch tokens[i].kind {
		case "if", "for":
			depth++
		case "endif", "endfor":
			if depth > 0 {
				depth--
				continue
			}
			if tokens[i].kind == "endfor" {
				return i, nil
			}
			return 0, fmt.Errorf("unexpected {%% endif %%} inside for block")
		}
	}
	return 0, fmt.Errorf("unclosed for block")
}

// evalCondition evaluates a tag condition: a bare variable is tested for
// truthiness, "not" negates, and == / != compare against quoted literals or
// other variables by string form.
func evalCondition(expr string, cfg *guidebook.Config, scope tmplScope) bool {
	expr = strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(expr, "not "); ok {
		return !evalCondition(rest, cfg, scope)
	}
	if lhs, rhs, ok := strings.Cut(expr, "!="); ok {
		return conditionOperand(lhs, cfg, scope) != conditionOperand(rhs, cfg, scope)
	}
	if lhs, rhs, ok := strings.Cut(expr, "=="); ok {
		return conditionOperand(lhs, cfg, scope) == conditionOperand(rhs, cfg, scope)
	}
	v, ok := lookupValue(expr, cfg, scope)
	return ok && truthy(v)
}

func conditionOperand(s string, cfg *guidebook.Config, scope tmplScope) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if v, ok := lookupValue(s, cfg, scope); ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}

// lookupValue resolves a dotted variable expression, loop scope first, then
// the config variables. The "book." prefix is optional.
func lookupValue(expr string, cfg *guidebook.Config, scope tmplScope) (any, bool) {
	if v, ok := lookupScope(expr, scope); ok {
		return v, true
	}
	parts := strings.Split(strings.TrimPrefix(expr, "book."), ".")
	var cur any = map[string]any(cfg.Variables)
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func lookupScope(expr string, scope tmplScope) (any, bool) {
	parts := strings.Split(expr, ".")
	v, ok := scope[parts[0]]
	if !ok {
		return nil, false
	}
	for _, p := range parts[1:] {
		m, isMap := v.(map[string]any)
		if !isMap {
			return nil, false
		}
		if v, ok = m[p]; !ok {
			return nil, false
		}
	}
	return v, true
}

// substituteScoped replaces {{ name }} references resolvable from the loop
// scope. Unresolvable references stay literal for expandVariables.
func substituteScoped(text string, scope tmplScope) string {
	if len(scope) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	return scopedVarPattern.ReplaceAllStringFunc(text, func(ref string) string {
		expr := scopedVarPattern.FindStringSubmatch(ref)[1]
		if v, ok := lookupScope(expr, scope); ok {
			return fmt.Sprintf("%v", v)
		}
		return ref
	})
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}
