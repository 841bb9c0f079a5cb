package diag_test

import (
	"strings"
	"testing"

	"eir/internal/diag"
)

func TestBagLimitAndMerge(t *testing.T) {
	bag := diag.NewBag(2)
	loc := diag.FuncLocation("f/0")
	for i := 0; i < 3; i++ {
		bag.Add(diag.NewError(diag.LowerUnsupported, loc, "receive"))
	}
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d, want 2 and 1", bag.Len(), bag.Dropped())
	}

	other := diag.NewBag(0)
	other.Add(diag.New(diag.SevWarning, diag.LowerIncomplete, loc, "try"))
	bag.Merge(other)
	if bag.Len() != 2 || bag.Dropped() != 2 {
		t.Errorf("after merge len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Error("expected errors and warnings")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	r.Report(diag.SSAUseOfUnassigned, diag.SevError, diag.BlockLocation("g/0", 1, 0, false), "%3", nil)
	r.Report(diag.SSADoubleAssign, diag.SevError, diag.BlockLocation("f/0", 2, 0, false), "%4", nil)
	r.Report(diag.SSAUseOfUnassigned, diag.SevError, diag.BlockLocation("f/0", 2, 0, true), "%5", nil)
	r.Report(diag.LowerIncomplete, diag.SevWarning, diag.FuncLocation("f/0"), "case", nil)
	r.Report(diag.LowerIncomplete, diag.SevWarning, diag.FuncLocation("f/0"), "case", nil)

	bag.Dedup()
	bag.Sort()
	got := diag.FormatShort(bag.Items(), false)
	want := strings.Join([]string{
		"f/0: WARNING LOW1003: case",
		"f/0:bb2:phi0: ERROR SSA2002: %5",
		"f/0:bb2:0: ERROR SSA2001: %4",
		"g/0:bb1:0: ERROR SSA2002: %3",
	}, "\n") + "\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := diag.NewBag(0)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	b := diag.ReportError(reporter, diag.CFGBadTarget, diag.BlockLocation("f/0", 0, -1, false), "jump to bb9").
		WithNote(diag.FuncLocation("f/0"), "entry block")
	b.Emit()
	b.Emit()
	diag.ReportError(reporter, diag.CFGBadTarget, diag.BlockLocation("f/0", 0, -1, false), "jump to bb9").Emit()

	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1", bag.Len())
	}
	out := diag.FormatShort(bag.Items(), true)
	if !strings.Contains(out, "f/0:bb0: ERROR CFG3001: jump to bb9") || !strings.Contains(out, "note: f/0: entry block") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCodeString(t *testing.T) {
	if got := diag.LowerUnsupported.String(); got != "[LOW1001]: Construct cannot be lowered" {
		t.Errorf("got %q", got)
	}
	if got := diag.Code(9999).ID(); got != "E0000" {
		t.Errorf("got %q", got)
	}
}

func TestAtLeast(t *testing.T) {
	loc := diag.FuncLocation("f/0")
	items := []*diag.Diagnostic{
		diag.New(diag.SevInfo, diag.LowerLambda, loc, "lifted"),
		diag.New(diag.SevWarning, diag.LowerIncomplete, loc, "try"),
		diag.NewError(diag.LowerUnsupported, loc, "receive"),
	}
	tests := []struct {
		floor diag.Severity
		want  []diag.Code
	}{
		{diag.SevInfo, []diag.Code{diag.LowerLambda, diag.LowerIncomplete, diag.LowerUnsupported}},
		{diag.SevWarning, []diag.Code{diag.LowerIncomplete, diag.LowerUnsupported}},
		{diag.SevError, []diag.Code{diag.LowerUnsupported}},
	}
	for _, tt := range tests {
		t.Run(tt.floor.String(), func(t *testing.T) {
			got := diag.AtLeast(items, tt.floor)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d diagnostics, want %d", len(got), len(tt.want))
			}
			for i, d := range got {
				if d.Code != tt.want[i] {
					t.Errorf("item %d = %s, want %s", i, d.Code.ID(), tt.want[i].ID())
				}
			}
		})
	}
	if len(items) != 3 || items[0].Code != diag.LowerLambda {
		t.Error("input was modified")
	}
}
