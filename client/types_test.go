package client

import "testing"

func TestParentJobID(t *testing.T) {
	cases := []struct {
		tree string
		want string
	}{
		{"ws1/parent/child", "parent"},
		{"ws1/a/b/c", "b"},
		{"ws1/top", ""},
		{"", ""},
	}
	for _, tc := range cases {
		j := Job{JobTree: tc.tree}
		if got := j.ParentJobID(); got != tc.want {
			t.Errorf("ParentJobID(%q) = %q, want %q", tc.tree, got, tc.want)
		}
	}
}

func TestAnnofabProjectID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://annofab.com/projects/prj1", "prj1"},
		{"https://annofab.com/projects/prj1/", "prj1"},
		{"https://annofab.com/projects/prj1/tasks", "prj1"},
		{"https://example.com/other", ""},
	}
	for _, tc := range cases {
		j := Job{ExternalLinkageInfo: &ExternalLinkageInfo{URL: tc.url}}
		if got := j.AnnofabProjectID(); got != tc.want {
			t.Errorf("AnnofabProjectID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}

	var unlinked Job
	if got := unlinked.AnnofabProjectID(); got != "" {
		t.Errorf("unlinked job project id = %q, want empty", got)
	}
}

func TestCompanyTag(t *testing.T) {
	company := WorkspaceTag{TagID: "t1", TagName: "company:kurusugawa"}
	if !company.IsCompany() {
		t.Error("company: prefixed tag should be a company tag")
	}
	if got := company.CompanyName(); got != "kurusugawa" {
		t.Errorf("CompanyName = %q, want kurusugawa", got)
	}

	plain := WorkspaceTag{TagID: "t2", TagName: "typist"}
	if plain.IsCompany() {
		t.Error("plain tag should not be a company tag")
	}
	if got := plain.CompanyName(); got != "" {
		t.Errorf("CompanyName = %q, want empty", got)
	}
}

func TestAnnofabAccountID(t *testing.T) {
	info := AccountExternalLinkageInfo{
		ExternalLinkageInfo: map[string]any{
			"annofab": map[string]any{"account_id": "af-123"},
		},
	}
	if got := info.AnnofabAccountID(); got != "af-123" {
		t.Errorf("AnnofabAccountID = %q, want af-123", got)
	}

	var empty AccountExternalLinkageInfo
	if got := empty.AnnofabAccountID(); got != "" {
		t.Errorf("AnnofabAccountID = %q, want empty", got)
	}
}
