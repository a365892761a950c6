package merge

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/boardworks/panelize/pkg/board"
	"github.com/boardworks/panelize/pkg/errors"
)

func gateFixture() *board.Document {
	return &board.Document{
		Version:   "6.5.0",
		Libraries: []*board.Library{resLibrary()},
		Elements: []*board.Element{
			{Name: "R1", Library: "RES", Package: "R0805", X: 10, Y: 20},
		},
		Signals: []*board.Signal{{
			Name: "GND",
			ContactRefs: []board.ContactRef{
				{Element: "R1", Pad: "1"},
			},
		}},
	}
}

func TestGatePassesCleanDocument(t *testing.T) {
	if err := Gate(gateFixture(), "a.brd"); err != nil {
		t.Fatalf("Gate: %v", err)
	}
}

func TestGateRejectsUnknownConstruct(t *testing.T) {
	doc := gateFixture()
	doc.Unknown = []board.UnknownConstruct{
		{Path: "/eagle/drawing/board/fusion", Construct: "fusion"},
	}

	err := Gate(doc, "a.brd")
	var unsupported *UnsupportedFeatureError
	if !stderrors.As(err, &unsupported) {
		t.Fatalf("error type = %T, want *UnsupportedFeatureError", err)
	}
	if unsupported.Construct != "fusion" {
		t.Errorf("construct = %q, want fusion", unsupported.Construct)
	}
	if unsupported.Path != "/eagle/drawing/board/fusion" {
		t.Errorf("path = %q", unsupported.Path)
	}
	if got := errors.GetCode(err); got != errors.ErrCodeUnsupportedFeature {
		t.Errorf("code = %v, want UNSUPPORTED_FEATURE", got)
	}
}

func TestGateVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{name: "supported", version: "6.5.0", wantErr: false},
		{name: "newer major", version: "9.7.0", wantErr: false},
		{name: "missing", version: "", wantErr: true},
		{name: "too old", version: "5.11", wantErr: true},
		{name: "garbage", version: "beta", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := gateFixture()
			doc.Version = tt.version

			err := Gate(doc, "a.brd")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Gate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var unsupported *UnsupportedFeatureError
				if !stderrors.As(err, &unsupported) {
					t.Fatalf("error type = %T, want *UnsupportedFeatureError", err)
				}
				if unsupported.Path != "/eagle" {
					t.Errorf("path = %q, want /eagle", unsupported.Path)
				}
			}
		})
	}
}

func TestGateRejectsMalformedNames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*board.Document)
	}{
		{name: "element with control character", mutate: func(doc *board.Document) {
			doc.Elements[0].Name = "R\x011"
		}},
		{name: "empty signal name", mutate: func(doc *board.Document) {
			doc.Signals[0].Name = ""
			doc.Signals[0].ContactRefs = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := gateFixture()
			tt.mutate(doc)

			err := Gate(doc, "a.brd")
			if err == nil {
				t.Fatal("malformed name accepted")
			}
			if got := errors.GetCode(err); got != errors.ErrCodeInvalidInput {
				t.Errorf("code = %v, want INVALID_INPUT", got)
			}
			if !strings.Contains(err.Error(), "a.brd") {
				t.Errorf("error %q does not name the input file", err)
			}
		})
	}
}

func TestGateRejectsUndefinedLibrary(t *testing.T) {
	doc := gateFixture()
	doc.Elements[0].Library = "CAP"

	err := Gate(doc, "a.brd")
	var unsupported *UnsupportedFeatureError
	if !stderrors.As(err, &unsupported) {
		t.Fatalf("error type = %T, want *UnsupportedFeatureError", err)
	}
	if !strings.Contains(unsupported.Construct, `library "CAP"`) {
		t.Errorf("construct = %q, want undefined library reference", unsupported.Construct)
	}
	if !strings.Contains(unsupported.Path, "element[R1]") {
		t.Errorf("path = %q, want element path", unsupported.Path)
	}
}

func TestGateRejectsUndefinedPackage(t *testing.T) {
	doc := gateFixture()
	doc.Elements[0].Package = "R1206"

	err := Gate(doc, "a.brd")
	var unsupported *UnsupportedFeatureError
	if !stderrors.As(err, &unsupported) {
		t.Fatalf("error type = %T, want *UnsupportedFeatureError", err)
	}
	if !strings.Contains(unsupported.Construct, `package "R1206"`) {
		t.Errorf("construct = %q, want undefined package reference", unsupported.Construct)
	}
}

func TestGateRejectsDanglingContactRef(t *testing.T) {
	doc := gateFixture()
	doc.Signals[0].ContactRefs[0].Element = "R9"

	err := Gate(doc, "a.brd")
	var unsupported *UnsupportedFeatureError
	if !stderrors.As(err, &unsupported) {
		t.Fatalf("error type = %T, want *UnsupportedFeatureError", err)
	}
	if !strings.Contains(unsupported.Construct, `missing element "R9"`) {
		t.Errorf("construct = %q", unsupported.Construct)
	}
	if !strings.Contains(unsupported.Path, "signal[GND]") {
		t.Errorf("path = %q, want signal path", unsupported.Path)
	}
}

func TestGateRejectsMissingPad(t *testing.T) {
	doc := gateFixture()
	doc.Signals[0].ContactRefs[0].Pad = "7"

	err := Gate(doc, "a.brd")
	var unsupported *UnsupportedFeatureError
	if !stderrors.As(err, &unsupported) {
		t.Fatalf("error type = %T, want *UnsupportedFeatureError", err)
	}
	if !strings.Contains(unsupported.Construct, `missing pad "7"`) {
		t.Errorf("construct = %q", unsupported.Construct)
	}
}

func TestGateAcceptsThroughHolePad(t *testing.T) {
	doc := gateFixture()
	pkg := doc.Libraries[0].Packages[0]
	pkg.Pads = append(pkg.Pads, board.Pad{Name: "MNT", Drill: 1.0})
	doc.Signals[0].ContactRefs[0].Pad = "MNT"

	if err := Gate(doc, "a.brd"); err != nil {
		t.Fatalf("Gate: %v", err)
	}
}
