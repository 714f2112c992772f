package strategy

import (
	"math"
	"testing"
)

func rising(from, to float64, n int) []float64 {
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	return out
}

func TestSMAEqualsMeanOfLastN(t *testing.T) {
	closes := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	for n := 1; n <= len(closes); n++ {
		got, ok := Latest(SMA(closes, n))
		if !ok {
			t.Fatalf("SMA(%d) undefined", n)
		}
		sum := 0.0
		for _, c := range closes[len(closes)-n:] {
			sum += c
		}
		if want := sum / float64(n); math.Abs(got-want) > 1e-12 {
			t.Fatalf("SMA(%d): expected %.6f, got %.6f", n, want, got)
		}
	}
}

func TestSMAUndefinedBeforeWindow(t *testing.T) {
	vals := SMA([]float64{1, 2, 3, 4}, 3)
	if vals[0].OK || vals[1].OK {
		t.Fatalf("expected first two values undefined: %+v", vals)
	}
	if !vals[2].OK || vals[2].V != 2 {
		t.Fatalf("unexpected value at index 2: %+v", vals[2])
	}
	if _, ok := Latest(SMA([]float64{1, 2}, 3)); ok {
		t.Fatalf("expected undefined SMA for short series")
	}
	if _, ok := Latest(SMA([]float64{1, 2}, 0)); ok {
		t.Fatalf("expected undefined SMA for zero period")
	}
}

func TestRSIBounded(t *testing.T) {
	series := [][]float64{
		{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.2, 45.6, 46.3, 46.3, 46.0, 46.4},
		{10, 9, 11, 8, 12, 7, 13, 6, 14, 5, 15, 4, 16, 3, 17, 2},
		rising(120, 100, 30),
		rising(100, 120, 30),
	}
	for i, s := range series {
		for j, v := range RSI(s, 14) {
			if !v.OK {
				continue
			}
			if v.V < 0 || v.V > 100 || math.IsNaN(v.V) {
				t.Fatalf("series %d idx %d: RSI out of range %.4f", i, j, v.V)
			}
		}
	}
}

func TestRSIWindow(t *testing.T) {
	closes := rising(100, 110, 15)
	vals := RSI(closes, 14)
	for i := 0; i < 14; i++ {
		if vals[i].OK {
			t.Fatalf("expected RSI undefined at %d", i)
		}
	}
	if !vals[14].OK {
		t.Fatalf("expected RSI defined at index 14")
	}
	if _, ok := Latest(RSI(closes[:14], 14)); ok {
		t.Fatalf("expected RSI undefined with only 14 closes")
	}
}

func TestRSISaturation(t *testing.T) {
	up, ok := Latest(RSI(rising(100, 120, 20), 14))
	if !ok || up != 100 {
		t.Fatalf("expected RSI 100 for monotonic rise, got %.4f (ok=%v)", up, ok)
	}
	down, ok := Latest(RSI(rising(120, 100, 20), 14))
	if !ok || down != 0 {
		t.Fatalf("expected RSI 0 for monotonic fall, got %.4f", down)
	}
	flat, ok := Latest(RSI([]float64{5, 5, 5, 5, 5}, 3))
	if !ok || flat != 50 {
		t.Fatalf("expected neutral RSI for flat window, got %.4f", flat)
	}
}

func TestRSIKnownValue(t *testing.T) {
	// gains 1,1 losses 1 over period 3 => RS=2, RSI=66.67
	vals := RSI([]float64{10, 11, 12, 11}, 3)
	got, ok := Latest(vals)
	if !ok {
		t.Fatalf("expected defined RSI")
	}
	if math.Abs(got-200.0/3.0) > 1e-9 {
		t.Fatalf("expected 66.67, got %.4f", got)
	}
}
