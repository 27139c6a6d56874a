package imports

import (
	"fmt"
	"testing"
)

func TestReport_RejectAcceptedMovesRow(t *testing.T) {
	report := NewReport()
	report.Accept(2, "X-1")
	report.Accept(3, "X-2")

	report.RejectAccepted(2, "batch transaction failed: deadlock")

	if len(report.Accepted) != 1 || report.Accepted[0].Row != 3 {
		t.Fatalf("expected only row 3 accepted, got %+v", report.Accepted)
	}
	if len(report.Rejected) != 1 {
		t.Fatalf("expected one rejected row, got %+v", report.Rejected)
	}
	r := report.Rejected[0]
	if r.Row != 2 || r.Uid != "X-1" || len(r.Errors) != 1 {
		t.Fatalf("rejected row must keep its uid and carry the reason, got %+v", r)
	}
}

func TestBuildResult_CapsErrorsAtTen(t *testing.T) {
	report := NewReport()
	report.Accept(2, "X-1")
	for i := 0; i < 15; i++ {
		report.Reject(i+3, fmt.Sprintf("X-%d", i+2), []string{"Total mismatch"})
	}

	result := BuildResult(report, 3)

	if !result.Success {
		t.Fatalf("result is a summary, not a verdict; expected success true")
	}
	if result.RecordsProcessed != 1 || result.RecordsFailed != 15 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.EntitiesDetected != 3 {
		t.Fatalf("expected 3 entities detected, got %d", result.EntitiesDetected)
	}
	if len(result.Errors) != 10 {
		t.Fatalf("expected errors capped at 10, got %d", len(result.Errors))
	}
	if result.Errors[0].Row != 3 || result.Errors[0].Error != "Total mismatch" {
		t.Fatalf("unexpected first error: %+v", result.Errors[0])
	}
}

func TestBuildResult_EmptyReport(t *testing.T) {
	result := BuildResult(NewReport(), 0)

	if result.RecordsProcessed != 0 || result.RecordsFailed != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Errors == nil || len(result.Errors) != 0 {
		t.Fatalf("errors must serialize as an empty array, got %#v", result.Errors)
	}
}
