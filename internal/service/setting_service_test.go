package service

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
)

var testDefaults = model.DocumentSettings{
	SubjectName: "تربية بدنية ورياضية",
	Margins:     model.Margins{Top: 5, Bottom: 5, Left: 5, Right: 5},
}

func TestSettingService_DocumentDefaults(t *testing.T) {
	svc := NewSettingService(&memSettingStore{}, testDefaults, zerolog.Nop())

	got, err := svc.Document(context.Background())
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if diff := cmp.Diff(testDefaults, got); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingService_DocumentOverlay(t *testing.T) {
	store := &memSettingStore{values: map[string]string{
		model.SettingTeacherName: "أ. كريم",
		model.SettingSubjectName: "",
		model.SettingMarginTop:   "0",
		model.SettingMarginLeft:  "not a number",
		model.SettingMarginRight: "12.5",
	}}
	svc := NewSettingService(store, testDefaults, zerolog.Nop())

	got, err := svc.Document(context.Background())
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	want := model.DocumentSettings{
		TeacherName: "أ. كريم",
		SubjectName: "تربية بدنية ورياضية",
		Margins:     model.Margins{Top: 0, Bottom: 5, Left: 5, Right: 12.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overlay mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingService_UpdateDocumentRoundTrip(t *testing.T) {
	store := &memSettingStore{}
	svc := NewSettingService(store, testDefaults, zerolog.Nop())
	ctx := context.Background()

	in := model.DocumentSettings{
		TeacherName: "أ. سامية",
		SubjectName: "رياضة",
		Margins:     model.Margins{Top: 10, Bottom: 7.5, Left: 3, Right: 0},
	}
	if err := svc.UpdateDocument(ctx, in); err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}
	if store.values[model.SettingMarginBottom] != "7.5" {
		t.Errorf("Stored bottom margin = %q", store.values[model.SettingMarginBottom])
	}

	got, err := svc.Document(ctx)
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}

	all, err := svc.GetAllSettings(ctx)
	if err != nil || len(all) != 6 {
		t.Errorf("GetAllSettings = %d keys, %v", len(all), err)
	}
}
