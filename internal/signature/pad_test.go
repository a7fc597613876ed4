package signature

import (
	"image/color"
	"strings"
	"testing"
)

type padRecorder struct {
	finalized []string
	cleared   int
}

func newRecordedPad(screen Rect) (*Pad, *padRecorder) {
	rec := &padRecorder{}
	p := NewPad(screen)
	p.Finalized = func(dataURL string) { rec.finalized = append(rec.finalized, dataURL) }
	p.Cleared = func() { rec.cleared++ }
	return p, rec
}

func TestStrokeWithoutMovesEmitsNothing(t *testing.T) {
	p, rec := newRecordedPad(Rect{Width: 100, Height: 50})

	p.PointerDown(10, 10)
	p.PointerUp()

	if len(rec.finalized) != 0 {
		t.Fatalf("expected no artifact, got %d emissions", len(rec.finalized))
	}
	if p.HasInk() {
		t.Fatal("surface should have no ink")
	}
}

func TestStrokeWithMovesEmitsArtifact(t *testing.T) {
	p, rec := newRecordedPad(Rect{Width: 100, Height: 50})

	p.PointerDown(10, 10)
	p.PointerMove(40, 20)
	p.PointerMove(70, 30)
	p.PointerUp()

	if len(rec.finalized) != 1 {
		t.Fatalf("expected one artifact, got %d emissions", len(rec.finalized))
	}
	dataURL := rec.finalized[0]
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Fatalf("unexpected artifact prefix: %.40s", dataURL)
	}
	if _, err := DecodeArtifact(dataURL); err != nil {
		t.Fatalf("artifact does not decode: %v", err)
	}
	if !p.HasInk() {
		t.Fatal("surface should report ink")
	}
}

func TestPointerLeaveFinalizesLikeUp(t *testing.T) {
	p, rec := newRecordedPad(Rect{Width: 100, Height: 50})

	p.PointerDown(5, 5)
	p.PointerMove(50, 25)
	p.PointerLeave()

	if len(rec.finalized) != 1 {
		t.Fatalf("expected one artifact, got %d emissions", len(rec.finalized))
	}
}

func TestTouchEventsDriveTheSameMachine(t *testing.T) {
	p, rec := newRecordedPad(Rect{Width: 100, Height: 50})

	p.TouchStart(5, 5)
	p.TouchMove(60, 30)
	p.TouchEnd()

	if len(rec.finalized) != 1 {
		t.Fatalf("expected one artifact, got %d emissions", len(rec.finalized))
	}
}

func TestMovesOutsideStrokeAreIgnored(t *testing.T) {
	p, rec := newRecordedPad(Rect{Width: 100, Height: 50})

	p.PointerMove(40, 20)
	p.PointerUp()

	if p.HasInk() || len(rec.finalized) != 0 {
		t.Fatal("moves without pointer-down should not produce ink")
	}
}

func TestClearEmitsNullArtifactAndClearedOnce(t *testing.T) {
	p, rec := newRecordedPad(Rect{Width: 100, Height: 50})

	p.PointerDown(10, 10)
	p.PointerMove(60, 30)
	p.PointerUp()
	p.Clear()

	if rec.cleared != 1 {
		t.Fatalf("cleared fired %d times, want 1", rec.cleared)
	}
	if got := len(rec.finalized); got != 2 {
		t.Fatalf("expected 2 finalized emissions, got %d", got)
	}
	if rec.finalized[1] != "" {
		t.Fatal("clear should emit the empty artifact")
	}
	if p.HasInk() {
		t.Fatal("clear should reset the ink state")
	}

	// A strokeless down/up after clear emits nothing again.
	p.PointerDown(10, 10)
	p.PointerUp()
	if len(rec.finalized) != 2 {
		t.Fatal("expected no artifact after a clear with no new ink")
	}
}

func TestCoordinateTranslationUsesMountRect(t *testing.T) {
	// Surface mounted at (200, 100) on screen.
	p := NewPad(Rect{Left: 200, Top: 100, Width: 100, Height: 50})

	p.PointerDown(210, 110)
	p.PointerMove(240, 110)
	p.PointerUp()

	// The stroke ran from surface-local (10, 10) to (40, 10).
	img := p.Image()
	if _, _, _, a := img.At(25, 10).RGBA(); a == 0 {
		t.Fatal("expected ink along the translated stroke")
	}
	if _, _, _, a := img.At(25, 40).RGBA(); a != 0 {
		t.Fatal("unexpected ink away from the stroke")
	}
}

func TestRemeasureResyncsTranslation(t *testing.T) {
	p := NewPad(Rect{Left: 0, Top: 0, Width: 100, Height: 50})
	p.Remeasure(Rect{Left: 50, Top: 20, Width: 100, Height: 50})

	p.PointerDown(55, 25)
	p.PointerMove(75, 25)
	p.PointerUp()

	img := p.Image()
	if _, _, _, a := img.At(15, 5).RGBA(); a == 0 {
		t.Fatal("expected ink at the remeasured coordinates")
	}
}

func TestClearWipesRaster(t *testing.T) {
	p, _ := newRecordedPad(Rect{Width: 100, Height: 50})

	p.PointerDown(10, 10)
	p.PointerMove(90, 40)
	p.PointerUp()
	p.Clear()

	img := p.img
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{}) {
				t.Fatalf("pixel (%d,%d) not wiped", x, y)
			}
		}
	}
}
