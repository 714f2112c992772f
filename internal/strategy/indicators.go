package strategy

// Value: значение индикатора на индексе; OK=false пока окно не заполнено.
type Value struct {
	V  float64
	OK bool
}

// SMA: простая скользящая средняя по последним period закрытиям.
// Определена начиная с индекса period-1.
func SMA(closes []float64, period int) []Value {
	out := make([]Value, len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}
	for i := period - 1; i < len(closes); i++ {
		sum := 0.0
		for _, c := range closes[i-period+1 : i+1] {
			sum += c
		}
		out[i] = Value{V: sum / float64(period), OK: true}
	}
	return out
}

// RSI сглаживает приросты и падения простым средним по period дельтам.
// Нужна period+1 цена, первое значение на индексе period.
func RSI(closes []float64, period int) []Value {
	out := make([]Value, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else if d < 0 {
			losses[i] = -d
		}
	}

	for i := period; i < len(closes); i++ {
		var g, l float64
		for j := i - period + 1; j <= i; j++ {
			g += gains[j]
			l += losses[j]
		}
		out[i] = Value{V: rsiFrom(g/float64(period), l/float64(period)), OK: true}
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			// плоское окно: ни роста, ни падения
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Latest: последнее значение ряда и его доступность.
func Latest(values []Value) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	v := values[len(values)-1]
	return v.V, v.OK
}
