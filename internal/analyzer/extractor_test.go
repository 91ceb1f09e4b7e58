package analyzer

import (
	"strings"
	"testing"
)

func TestExtract_TitleAndDescription(t *testing.T) {
	html := `<html><head>
		<title>Backend Engineer at Acme</title>
		<meta property="og:site_name" content="Acme Careers">
	</head><body>
		<script>var tracking = 1;</script>
		<nav>Home | Jobs</nav>
		<main>We   build   things with Go and PostgreSQL.</main>
		<footer>Imprint</footer>
	</body></html>`

	meta := Extract(html, "https://careers.acme.com/jobs/1")

	if meta.PageTitle != "Backend Engineer at Acme" {
		t.Fatalf("page title = %q", meta.PageTitle)
	}
	if meta.CompanyName != "Acme Careers" {
		t.Fatalf("company = %q", meta.CompanyName)
	}
	if meta.Position != "Backend Engineer" {
		t.Fatalf("position = %q", meta.Position)
	}
	if strings.Contains(meta.Description, "tracking") || strings.Contains(meta.Description, "Imprint") {
		t.Fatalf("script/footer text leaked into description: %q", meta.Description)
	}
	if !strings.Contains(meta.Description, "We build things with Go and PostgreSQL.") {
		t.Fatalf("description = %q", meta.Description)
	}
}

func TestExtract_PortalSiteNameFallsBackToTitle(t *testing.T) {
	html := `<html><head>
		<title>Senior Developer at Globex | LinkedIn</title>
		<meta property="og:site_name" content="LinkedIn">
	</head><body>job</body></html>`

	meta := Extract(html, "https://www.linkedin.com/jobs/view/123")

	if meta.CompanyName != "Globex" {
		t.Fatalf("company = %q", meta.CompanyName)
	}
	if meta.Position != "Senior Developer" {
		t.Fatalf("position = %q", meta.Position)
	}
}

func TestExtract_CompanyFromHostWhenNothingElse(t *testing.T) {
	meta := Extract("", "https://www.globex.com/careers/42")
	if meta.CompanyName != "Globex" {
		t.Fatalf("company = %q", meta.CompanyName)
	}
	if meta.Position != defaultPosition {
		t.Fatalf("position = %q", meta.Position)
	}
	if meta.Description != "" {
		t.Fatalf("description = %q", meta.Description)
	}
}

func TestExtract_ShortPositionGetsDefault(t *testing.T) {
	html := `<html><head><title>QA at Acme</title></head><body></body></html>`
	meta := Extract(html, "https://acme.example")
	if meta.Position != defaultPosition {
		t.Fatalf("position = %q", meta.Position)
	}
}

func TestExtract_MetaDescriptionAsLooseFallback(t *testing.T) {
	html := `<html><head>
		<meta name="description" content="Acme is hiring engineers who know Go.">
	</head><body></body></html>`

	meta := Extract(html, "https://acme.example/jobs")
	if !strings.Contains(meta.Description, "Acme is hiring engineers") {
		t.Fatalf("description = %q", meta.Description)
	}
}

func TestExtract_MalformedHTMLDoesNotPanic(t *testing.T) {
	meta := Extract("<html><title>Broken<body><div><<<", "https://acme.example")
	if meta.CompanyName == "" && meta.Position == "" {
		t.Fatal("expected best-effort extraction")
	}
}

func TestRefineCompanyFromDescription(t *testing.T) {
	t.Run("legal entity suffix", func(t *testing.T) {
		got, ok := RefineCompanyFromDescription("Working at Dsb Ccb Solutions GmbH in Berlin.")
		if !ok || !strings.Contains(got, "GmbH") {
			t.Fatalf("refine = %q, %v", got, ok)
		}
	})

	t.Run("employer label", func(t *testing.T) {
		got, ok := RefineCompanyFromDescription("Details Employer: Initech Systems\nLocation: Remote")
		if !ok || got != "Initech Systems" {
			t.Fatalf("refine = %q, %v", got, ok)
		}
	})

	t.Run("no signal", func(t *testing.T) {
		if got, ok := RefineCompanyFromDescription("A plain description with no names."); ok {
			t.Fatalf("unexpected refine %q", got)
		}
	})
}

func TestTruncateBytes(t *testing.T) {
	s := strings.Repeat("ä", 10)
	got := truncateBytes(s, 11)
	if len(got) != 10 {
		t.Fatalf("len = %d", len(got))
	}
	if !strings.HasPrefix(s, got) {
		t.Fatalf("got = %q", got)
	}
}
