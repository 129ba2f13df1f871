/*
Copyright 2025-2026 the eHalisaha Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package browser

import (
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
)

// By selects how a Locator value is interpreted.
type By string

const (
	ByID    By = "id"
	ByCSS   By = "css"
	ByXPath By = "xpath"
)

// Locator identifies zero or more elements on a page.
type Locator struct {
	By    By
	Value string
}

// ID locates an element by its id attribute.
func ID(id string) Locator {
	return Locator{By: ByID, Value: id}
}

// CSS locates elements with a CSS selector.
func CSS(selector string) Locator {
	return Locator{By: ByCSS, Value: selector}
}

// XPath locates elements with an XPath expression.
func XPath(expression string) Locator {
	return Locator{By: ByXPath, Value: expression}
}

// ByText locates tag elements whose normalised text contains text.
func ByText(tag, text string) Locator {
	return XPath(fmt.Sprintf("//%s[contains(normalize-space(.), %s)]", tag, xpathLiteral(text)))
}

// ByOnclick locates buttons whose onclick handler mentions fragment.
func ByOnclick(fragment string) Locator {
	return XPath(fmt.Sprintf("//button[contains(@onclick, %s)]", xpathLiteral(fragment)))
}

func (l Locator) String() string {
	if l.By == ByID {
		return "#" + l.Value
	}

	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

// xpathLiteral quotes s for use in an XPath expression.  XPath 1.0 has no
// escapes so strings holding both quote kinds are built with concat().
func xpathLiteral(s string) string {
	hasSingle, hasDouble := false, false

	for _, r := range s {
		switch r {
		case '\'':
			hasSingle = true
		case '"':
			hasDouble = true
		}
	}

	switch {
	case !hasSingle:
		return "'" + s + "'"
	case !hasDouble:
		return `"` + s + `"`
	}

	out := "concat("

	start := 0

	for i, r := range s {
		if r == '\'' {
			if i > start {
				out += "'" + s[start:i] + "',"
			}

			out += `"'",`
			start = i + 1
		}
	}

	out += "'" + s[start:] + "')"

	return out
}

// queryOptions maps the locator onto a chromedp query.
func (l Locator) queryOptions() []chromedp.QueryOption {
	switch l.By {
	case ByID:
		return []chromedp.QueryOption{chromedp.ByID}
	case ByXPath:
		return []chromedp.QueryOption{chromedp.BySearch}
	default:
		return []chromedp.QueryOption{chromedp.ByQueryAll}
	}
}

func jsString(s string) string {
	//nolint:errchkjson // strings always marshal
	b, _ := json.Marshal(s)

	return string(b)
}

// finder is a script expression yielding an array of matching elements.
func (l Locator) finder() string {
	return fmt.Sprintf(`((by, value) => {
	if (by === 'id') {
		const e = document.getElementById(value);
		return e ? [e] : [];
	}
	if (by === 'xpath') {
		const r = document.evaluate(value, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		const out = [];
		for (let i = 0; i < r.snapshotLength; i++) {
			out.push(r.snapshotItem(i));
		}
		return out;
	}
	return Array.from(document.querySelectorAll(value));
})(%s, %s)`, jsString(string(l.By)), jsString(l.Value))
}

// snapshotScript describes every match as an Element.
func (l Locator) snapshotScript() string {
	return fmt.Sprintf(`%s.map((e) => {
	const style = window.getComputedStyle(e);
	const rendered = !!(e.offsetWidth || e.offsetHeight || e.getClientRects().length);
	return {
		tag: e.tagName.toLowerCase(),
		text: (e.innerText || e.textContent || '').trim(),
		value: ('value' in e && e.value != null) ? String(e.value) : '',
		visible: rendered && style.visibility !== 'hidden' && style.display !== 'none',
		enabled: !e.disabled,
	};
})`, l.finder())
}

func (l Locator) countScript() string {
	return l.finder() + ".length"
}

// fillScript assigns a value the way a user edit would, firing input and
// change so page handlers run.
func (l Locator) fillScript(value string) string {
	return fmt.Sprintf(`(() => {
	const e = %s[0];
	if (!e) {
		return false;
	}
	e.focus();
	e.value = %s;
	e.dispatchEvent(new Event('input', { bubbles: true }));
	e.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
})()`, l.finder(), jsString(value))
}

// clickScript is the fallback when a synthesised mouse click fails.
func (l Locator) clickScript(n int) string {
	return fmt.Sprintf(`(() => {
	const e = %s[%d];
	if (!e) {
		return false;
	}
	e.scrollIntoView({ block: 'center' });
	e.click();
	return true;
})()`, l.finder(), n)
}

// selectScript picks an option of a select element.  With an empty wanted
// value the first option that is not blank, "null" or "undefined" is used,
// falling back to the first option.  It yields the chosen value, or null
// when nothing was selected.
func (l Locator) selectScript(wanted string) string {
	return fmt.Sprintf(`(() => {
	const s = %s[0];
	if (!s || !s.options || s.options.length === 0) {
		return null;
	}
	const wanted = %s;
	const options = Array.from(s.options);
	let chosen = null;
	if (wanted !== '') {
		chosen = options.find((o) => o.value === wanted) || null;
	} else {
		chosen = options.find((o) => {
			const v = (o.value || '').trim();
			return v !== '' && v !== 'null' && v !== 'undefined';
		}) || options[0];
	}
	if (!chosen) {
		return null;
	}
	s.value = chosen.value;
	s.dispatchEvent(new Event('input', { bubbles: true }));
	s.dispatchEvent(new Event('change', { bubbles: true }));
	return chosen.value;
})()`, l.finder(), jsString(wanted))
}

func (l Locator) valueScript() string {
	return fmt.Sprintf(`(() => {
	const e = %s[0];
	return e && 'value' in e && e.value != null ? String(e.value) : null;
})()`, l.finder())
}
