package repository

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func stageValue(t *testing.T, stage bson.D, key string) bson.D {
	t.Helper()
	for _, e := range stage {
		if e.Key == key {
			d, ok := e.Value.(bson.D)
			if !ok {
				t.Fatalf("stage %q is %T, want bson.D", key, e.Value)
			}
			return d
		}
	}
	t.Fatalf("stage %q not found in %v", key, stage)
	return nil
}

func fieldValue(t *testing.T, doc bson.D, key string) any {
	t.Helper()
	for _, e := range doc {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("field %q not found in %v", key, doc)
	return nil
}

func TestBuildAvailabilityPipeline_JoinsBookingsOnTreatmentAndDate(t *testing.T) {
	pipeline := BuildAvailabilityPipeline("Jan 1, 2024")

	if len(pipeline) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(pipeline))
	}

	lookup := stageValue(t, pipeline[0], "$lookup")
	if got := fieldValue(t, lookup, "from"); got != "bookings" {
		t.Errorf("lookup from = %v, want bookings", got)
	}
	if got := fieldValue(t, lookup, "localField"); got != "name" {
		t.Errorf("lookup localField = %v, want name", got)
	}
	if got := fieldValue(t, lookup, "foreignField"); got != "treatment" {
		t.Errorf("lookup foreignField = %v, want treatment", got)
	}

	// The join's inner pipeline must pin the requested date verbatim.
	inner, ok := fieldValue(t, lookup, "pipeline").(bson.A)
	if !ok || len(inner) != 1 {
		t.Fatalf("lookup inner pipeline = %v, want a single $match", fieldValue(t, lookup, "pipeline"))
	}
	match := stageValue(t, inner[0].(bson.D), "$match")
	expr := fieldValue(t, match, "$expr").(bson.D)
	eq := fieldValue(t, expr, "$eq").(bson.A)
	if eq[0] != "$appointmentDate" || eq[1] != "Jan 1, 2024" {
		t.Errorf("date match = %v, want [$appointmentDate Jan 1, 2024]", eq)
	}
}

func TestBuildAvailabilityPipeline_FiltersSlotsOrderPreserving(t *testing.T) {
	pipeline := BuildAvailabilityPipeline("Jan 1, 2024")

	final := stageValue(t, pipeline[2], "$project")
	slots, ok := fieldValue(t, final, "slots").(bson.D)
	if !ok {
		t.Fatalf("final slots projection is %T, want bson.D", fieldValue(t, final, "slots"))
	}

	// $filter walks the catalog array in order; $setDifference would not
	// guarantee that, so its presence here would be a regression.
	filter := fieldValue(t, slots, "$filter").(bson.D)
	if got := fieldValue(t, filter, "input"); got != "$slots" {
		t.Errorf("filter input = %v, want $slots", got)
	}

	for _, e := range final {
		if e.Key == "name" || e.Key == "price" {
			if e.Value != 1 {
				t.Errorf("projection %s = %v, want passthrough", e.Key, e.Value)
			}
		}
	}
}
