package docbook

import (
	"strings"
	"sync"
	"testing"
)

func TestRules_Order(t *testing.T) {
	rs := Rules()
	if len(rs) != 30 {
		t.Fatalf("got %d rules, want 30", len(rs))
	}
	index := func(pattern string) int {
		for i, r := range rs {
			if r.Pattern.String() == pattern {
				return i
			}
		}
		t.Fatalf("rule %q not found", pattern)
		return -1
	}
	if rs[0].Pattern.String() != `<p>|<p [^>]*>` {
		t.Errorf("first rule = %q, want paragraph rule", rs[0].Pattern)
	}
	spanStrip := index(`<span>|<span [^>]*>|</span>|<br>|<br/>|</br>|<br />`)
	bold := index(`<b>|<b [^>]*>|<em>|<em [^>]*>|<strong>|<strong [^>]*>`)
	closing := index(`</b>|</i>|</u>|</strong>|</em>|</s>|</strike>`)
	if bold > closing {
		t.Error("opening emphasis must be mapped before closing tags")
	}
	if spanStrip > closing {
		t.Error("span stripping is expected before closing emphasis rule")
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	rs := Rules()
	rs[0] = Rule{}
	if Rules()[0].Pattern == nil {
		t.Error("mutating the returned slice changed the rule table")
	}
}

func TestApplyRules_PhraseSurvivesSpanStrip(t *testing.T) {
	in := `<span class="a"><phrase role="ff0000">x</phrase></span>`
	if got := applyRules(in); got != `<phrase role="ff0000">x</phrase>` {
		t.Errorf("got %q", got)
	}
}

func TestApplyRules_DoesNotTouchSimilarTags(t *testing.T) {
	in := `<small>a</small><param name="x"/><section>s</section><big>b</big>`
	if got := applyRules(in); got != in {
		t.Errorf("tags sharing a prefix with mapped tags changed: %q", got)
	}
}

func TestHtml2Docbook_ConcurrentUse(t *testing.T) {
	in := wrapHTML(`<p>a <i>b</i> <a href="http://x.org">c</a></p>`)
	want := Html2Docbook(in)
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Html2Docbook(in); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent result %q differs from %q", got, want)
	}
	if !strings.Contains(want, `<link xl:href="http://x.org">c</link>`) {
		t.Errorf("unexpected conversion %q", want)
	}
}
