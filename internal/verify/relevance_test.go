package verify

import "testing"

func TestNewRelevanceObituaryDetection(t *testing.T) {
	r := NewRelevance("morte de Roberto Carlos")
	if !r.IsObituary {
		t.Fatal("expected obituary mode")
	}
	if r.Subject != "roberto carlos" {
		t.Errorf("Subject = %q, want roberto carlos", r.Subject)
	}

	generic := NewRelevance("eleições municipais 2026")
	if generic.IsObituary {
		t.Error("generic keyword misdetected as obituary")
	}
}

func TestObituaryMatchesRequiresNameAndDeathTerm(t *testing.T) {
	r := NewRelevance("morte de Roberto Carlos")

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"name and death term", "roberto carlos morreu aos 80 anos", true},
		{"name without death term", "roberto carlos fará novo show em dezembro", false},
		{"death term without name", "cantor famoso morreu ontem em são paulo", false},
		{"single name token only", "roberto foi visto no evento após falecimento de colega", false},
		{"both tokens falecimento", "falecimento de roberto carlos confirmado pela família", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := r.Matches(c.text); got != c.want {
				t.Errorf("Matches(%q) = %v, want %v", c.text, got, c.want)
			}
		})
	}
}

func TestObituaryShortNameRequiresFewerMatches(t *testing.T) {
	// One-word names can only ever match one token.
	r := NewRelevance("morte de Faustão")
	if !r.Matches("faustão morreu, diz site") {
		t.Error("single-token name with death term should match")
	}
}

func TestGenericMatchesHalfTokens(t *testing.T) {
	r := NewRelevance("reforma tributária impostos governo")

	if !r.Matches("governo detalha reforma dos impostos para o próximo ano") {
		t.Error("text with majority of tokens should match")
	}
	if r.Matches("campeonato de futebol começa amanhã") {
		t.Error("unrelated text should not match")
	}
}

func TestHasFalseIndicatorsRequiresSubject(t *testing.T) {
	r := NewRelevance("morte de Roberto Carlos")

	if !r.HasFalseIndicators("roberto carlos está vivo, notícia falsa circula", fakeNewsIndicators) {
		t.Error("indicator co-occurring with subject should trigger")
	}
	if r.HasFalseIndicators("notícia falsa sobre outro artista circula", fakeNewsIndicators) {
		t.Error("indicator without subject must not trigger")
	}
	if r.HasFalseIndicators("roberto carlos lança novo álbum este ano", fakeNewsIndicators) {
		t.Error("subject without indicator must not trigger")
	}
}

func TestIsSensitiveTopic(t *testing.T) {
	cases := []struct {
		keyword string
		want    bool
	}{
		{"morte de famoso", true},
		{"acidente fatal na rodovia", true},
		{"festival de música en são paulo", false},
		{"assassinato em investigação", true},
	}
	for _, c := range cases {
		if got := IsSensitiveTopic(c.keyword); got != c.want {
			t.Errorf("IsSensitiveTopic(%q) = %v, want %v", c.keyword, got, c.want)
		}
	}
}
