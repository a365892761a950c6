package eagle

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/boardworks/panelize/pkg/errors"
	"github.com/boardworks/panelize/pkg/observability"
)

// testBoard is a minimal but representative board file: two layers, one
// library with a two-pad resistor package, one placed element with a smashed
// name label, one routed signal and a design rule set.
const testBoard = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE eagle SYSTEM "eagle.dtd">
<eagle version="6.5.0">
<drawing>
<settings>
<setting alwaysvectorfont="no"/>
<setting verticaltext="up"/>
</settings>
<grid distance="0.1" unitdist="inch" unit="inch" style="lines" multiple="1" display="no"/>
<layers>
<layer number="1" name="Top" color="4" fill="1"/>
<layer number="16" name="Bottom" color="1" fill="1"/>
<layer number="20" name="Dimension" color="15" fill="1" visible="no"/>
</layers>
<board>
<plain>
<wire x1="0" y1="0" x2="40" y2="0" width="0.2" layer="20"/>
<wire x1="40" y1="0" x2="40" y2="30" width="0.2" layer="20"/>
<text x="1" y="1" size="1.27" layer="21" rot="R90">panel</text>
<hole x="5" y="5" drill="3.2"/>
</plain>
<libraries>
<library name="RES">
<packages>
<package name="R0805">
<description>Chip resistor 0805</description>
<wire x1="-1" y1="0.6" x2="1" y2="0.6" width="0.1" layer="21"/>
<smd name="1" x="-0.95" y="0" dx="1.3" dy="1.5" layer="1"/>
<smd name="2" x="0.95" y="0" dx="1.3" dy="1.5" layer="1"/>
</package>
</packages>
</library>
</libraries>
<designrules name="default">
<param name="mdWireWire" value="8mil"/>
<param name="msWidth" value="10mil"/>
</designrules>
<elements>
<element name="R1" library="RES" package="R0805" value="10k" x="10" y="10" smashed="yes" rot="R90">
<attribute name="NAME" x="10" y="12" size="1.27" layer="25" rot="R90"/>
</element>
</elements>
<signals>
<signal name="GND">
<contactref element="R1" pad="1"/>
<wire x1="10" y1="10" x2="20" y2="10" width="0.4064" layer="1"/>
<via x="20" y="10" extent="1-16" drill="0.3"/>
</signal>
</signals>
</board>
</drawing>
</eagle>
`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(testBoard))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got, want := doc.Version, "6.5.0"; got != want {
		t.Errorf("version = %q, want %q", got, want)
	}
	if got, want := len(doc.Settings), 2; got != want {
		t.Errorf("settings = %d, want %d", got, want)
	}
	if got, want := len(doc.Layers), 3; got != want {
		t.Fatalf("layers = %d, want %d", got, want)
	}
	if doc.Layers[2].Visible {
		t.Error("layer 20 should not be visible")
	}
	if !doc.Layers[0].Active {
		t.Error("layer 1 should default to active")
	}

	lib := doc.Library("RES")
	if lib == nil {
		t.Fatal("library RES missing")
	}
	pkg := lib.Package("R0805")
	if pkg == nil {
		t.Fatal("package R0805 missing")
	}
	if got, want := pkg.Description, "Chip resistor 0805"; got != want {
		t.Errorf("package description = %q, want %q", got, want)
	}
	if got, want := len(pkg.SMDs), 2; got != want {
		t.Fatalf("smds = %d, want %d", got, want)
	}
	if got, want := pkg.SMDs[0].X, -0.95; got != want {
		t.Errorf("smd x = %v, want %v", got, want)
	}

	el := doc.Element("R1")
	if el == nil {
		t.Fatal("element R1 missing")
	}
	if got, want := el.Rot.String(), "R90"; got != want {
		t.Errorf("element rot = %s, want %s", got, want)
	}
	if !el.Smashed {
		t.Error("element should be smashed")
	}
	if el.Attribute("NAME") == nil {
		t.Error("NAME attribute missing")
	}

	sig := doc.Signal("GND")
	if sig == nil {
		t.Fatal("signal GND missing")
	}
	if got, want := len(sig.ContactRefs), 1; got != want {
		t.Errorf("contactrefs = %d, want %d", got, want)
	}
	if got, want := len(sig.Vias), 1; got != want {
		t.Errorf("vias = %d, want %d", got, want)
	}

	if doc.DesignRules == nil {
		t.Fatal("design rules missing")
	}
	if v, ok := doc.DesignRules.Param("mdWireWire"); !ok || v != "8mil" {
		t.Errorf("mdWireWire = %q (ok=%v), want 8mil", v, ok)
	}

	if len(doc.Unknown) != 0 {
		t.Errorf("unexpected unknown constructs: %v", doc.Unknown)
	}
}

func TestDecodeRecordsUnknownConstructs(t *testing.T) {
	const input = `<eagle version="6.5.0">
<drawing>
<board>
<fusion mode="3d"/>
<elements>
<element name="U1" library="L" package="P" value="" x="0" y="0" experimental="yes"/>
</elements>
</board>
</drawing>
</eagle>`

	doc, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got, want := len(doc.Unknown), 2; got != want {
		t.Fatalf("unknown constructs = %d, want %d: %v", got, want, doc.Unknown)
	}
	if got, want := doc.Unknown[0].Construct, "fusion"; got != want {
		t.Errorf("construct = %q, want %q", got, want)
	}
	if got, want := doc.Unknown[1].Construct, "attribute experimental"; got != want {
		t.Errorf("construct = %q, want %q", got, want)
	}
}

func TestDecodeRejectsBadNumbers(t *testing.T) {
	const input = `<eagle version="6.5.0">
<drawing>
<board>
<elements>
<element name="U1" library="L" package="P" value="" x="abc" y="0"/>
</elements>
</board>
</drawing>
</eagle>`

	_, err := Decode(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected decode error for non-numeric coordinate")
	}
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("error code = %v, want PARSE_ERROR", errors.GetCode(err))
	}
}

func TestDecodeMissingRoot(t *testing.T) {
	_, err := Decode(strings.NewReader(`<schematic/>`))
	if err == nil {
		t.Fatal("expected error for non-board document")
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := Decode(strings.NewReader(testBoard))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(doc, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `DOCTYPE eagle SYSTEM "eagle.dtd"`) {
		t.Error("encoded output missing eagle doctype")
	}

	again, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode round-trip: %v", err)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Error("round-tripped document differs from original")
	}
}

type recordingCodecHooks struct {
	observability.NoopCodecHooks
	decodes, encodes         int
	decodeSize, encodeSize   int
	decodeErr, encodeErr     error
	decodeTimed, encodeTimed bool
}

func (h *recordingCodecHooks) OnDecode(_ context.Context, _ string, size int, d time.Duration, err error) {
	h.decodes++
	h.decodeSize = size
	h.decodeErr = err
	h.decodeTimed = d > 0
}

func (h *recordingCodecHooks) OnEncode(_ context.Context, _ string, size int, d time.Duration, err error) {
	h.encodes++
	h.encodeSize = size
	h.encodeErr = err
	h.encodeTimed = d > 0
}

func TestFileCodecFiresHooks(t *testing.T) {
	rec := &recordingCodecHooks{}
	observability.SetCodecHooks(rec)
	defer observability.SetCodecHooks(nil)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.brd")
	if err := os.WriteFile(in, []byte(testBoard), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := DecodeFile(in)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if rec.decodes != 1 || rec.decodeErr != nil {
		t.Fatalf("decode hook fired %d times, err %v", rec.decodes, rec.decodeErr)
	}
	if got, want := rec.decodeSize, len(testBoard); got != want {
		t.Errorf("decode size = %d, want %d", got, want)
	}

	out := filepath.Join(dir, "out.brd")
	if err := EncodeFile(doc, out); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	if rec.encodes != 1 || rec.encodeErr != nil {
		t.Fatalf("encode hook fired %d times, err %v", rec.encodes, rec.encodeErr)
	}
	if rec.encodeSize == 0 {
		t.Error("encode hook reported zero size for a written file")
	}

	// Failed decodes report through the hook as well.
	if _, err := DecodeFile(filepath.Join(dir, "missing.brd")); err == nil {
		t.Fatal("expected error for missing input")
	}
	if rec.decodes != 2 || rec.decodeErr == nil {
		t.Errorf("decode hook fired %d times, err %v; want a recorded failure", rec.decodes, rec.decodeErr)
	}
}

func TestDecodeFileNotFound(t *testing.T) {
	_, err := DecodeFile("testdata/does-not-exist.brd")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}
