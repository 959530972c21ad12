package market

import (
	"fmt"
	"math"
	"sort"
	"strings"

	talib "github.com/markcheno/go-talib"
)

// The original dispatch for "indicator by name" is a lookup table: every
// entry declares its required input series, its named parameters with
// defaults, and its output series, so bad requests fail here instead of
// inside the math library.

type ParamSpec struct {
	Name    string
	Default float64
}

// InputSlot is one required input series. Selectable slots are filled by
// the caller's positional source arguments (defaulting to close, like the
// original wrapper); fixed slots always read their named column.
type InputSlot struct {
	Name       string
	Source     Source
	Selectable bool
}

type computeFunc func(in [][]float64, p map[string]float64) [][]float64

type Descriptor struct {
	Name    string
	Group   string
	Inputs  []InputSlot
	Params  []ParamSpec
	Outputs []string
	compute computeFunc
	// lookback overrides the default warm-up estimate for indicators
	// whose unstable period exceeds the sum of their parameters.
	lookback func(p map[string]float64) int
}

// Lookback reports how many warm-up candles the indicator consumes before
// its first defined value. The math library indexes into its input by
// lookback, so the fetch must always cover it. The default estimate, the
// sum of the period-like parameters, over-fetches slightly for most
// indicators; chained-smoothing and Hilbert transform indicators carry an
// explicit override.
func (d Descriptor) Lookback(p map[string]float64) int {
	if d.lookback != nil {
		return d.lookback(p)
	}
	lookback := 0
	for _, spec := range d.Params {
		if v := p[spec.Name]; v > 0 {
			lookback += int(math.Ceil(v))
		}
	}
	return lookback
}

func (d Descriptor) defaults() map[string]float64 {
	p := make(map[string]float64, len(d.Params))
	for _, spec := range d.Params {
		p[spec.Name] = spec.Default
	}
	return p
}

func (d Descriptor) hasParam(name string) bool {
	for _, spec := range d.Params {
		if spec.Name == name {
			return true
		}
	}
	return false
}

func realSlot() InputSlot {
	return InputSlot{Name: "real", Source: SourceClose, Selectable: true}
}

func fixedSlot(s Source) InputSlot {
	return InputSlot{Name: string(s), Source: s}
}

func period(def float64) ParamSpec {
	return ParamSpec{Name: "period", Default: def}
}

func one(s []float64) [][]float64 {
	return [][]float64{s}
}

func pi(p map[string]float64, name string) int {
	return int(p[name])
}

// The Hilbert transform functions consume a fixed 63 bars regardless of
// parameters.
const htLookback = 63

func withLookback(d Descriptor, fn func(map[string]float64) int) Descriptor {
	d.lookback = fn
	return d
}

func fixedLookback(n int) func(map[string]float64) int {
	return func(map[string]float64) int { return n }
}

// smoothingChain covers indicators built from n chained EMA passes, each
// consuming period-1 bars.
func smoothingChain(n int) func(map[string]float64) int {
	return func(p map[string]float64) int {
		return n * (pi(p, "period") - 1)
	}
}

// realPeriod builds the common (real, period) -> one series shape.
func realPeriod(group string, def float64, fn func([]float64, int) []float64) Descriptor {
	return Descriptor{
		Group:   group,
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{period(def)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(fn(in[0], pi(p, "period")))
		},
	}
}

// hlrPeriod builds the common (high, low, real, period) -> one series shape.
func hlrPeriod(group string, def float64, fn func(h, l, c []float64, period int) []float64) Descriptor {
	return Descriptor{
		Group:   group,
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot()},
		Params:  []ParamSpec{period(def)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(fn(in[0], in[1], in[2], pi(p, "period")))
		},
	}
}

// hlPeriod builds the (high, low, period) -> one series shape.
func hlPeriod(group string, def float64, fn func(h, l []float64, period int) []float64) Descriptor {
	return Descriptor{
		Group:   group,
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow)},
		Params:  []ParamSpec{period(def)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(fn(in[0], in[1], pi(p, "period")))
		},
	}
}

// realOnly builds the parameterless (real) -> one series shape.
func realOnly(group string, fn func([]float64) []float64) Descriptor {
	return Descriptor{
		Group:   group,
		Inputs:  []InputSlot{realSlot()},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(fn(in[0]))
		},
	}
}

// twoReal builds the (real0, real1) -> one series shape. Both slots are
// caller-selectable and default to the high and low columns.
func twoReal(group string, fn func(r0, r1 []float64) []float64) Descriptor {
	return Descriptor{
		Group: group,
		Inputs: []InputSlot{
			{Name: "real0", Source: SourceHigh, Selectable: true},
			{Name: "real1", Source: SourceLow, Selectable: true},
		},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(fn(in[0], in[1]))
		},
	}
}

var registry = map[string]Descriptor{
	// overlap studies
	"BBANDS": {
		Group:  "overlap",
		Inputs: []InputSlot{realSlot()},
		Params: []ParamSpec{period(20), {Name: "nbdevup", Default: 2}, {Name: "nbdevdn", Default: 2}},
		Outputs: []string{"upperband", "middleband", "lowerband"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			up, mid, low := talib.BBands(in[0], pi(p, "period"), p["nbdevup"], p["nbdevdn"], talib.SMA)
			return [][]float64{up, mid, low}
		},
	},
	"DEMA":     withLookback(realPeriod("overlap", 30, talib.Dema), smoothingChain(2)),
	"EMA":      realPeriod("overlap", 30, talib.Ema),
	"KAMA":     realPeriod("overlap", 30, talib.Kama),
	"MIDPOINT": realPeriod("overlap", 14, talib.MidPoint),
	"SMA":      realPeriod("overlap", 30, talib.Sma),
	"TEMA":     withLookback(realPeriod("overlap", 30, talib.Tema), smoothingChain(3)),
	"TRIMA":    realPeriod("overlap", 30, talib.Trima),
	"WMA":      realPeriod("overlap", 30, talib.Wma),
	"MA": {
		Group:   "overlap",
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{period(30)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.Ma(in[0], pi(p, "period"), talib.SMA))
		},
	},
	"T3": withLookback(Descriptor{
		Group:   "overlap",
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{period(5), {Name: "vfactor", Default: 0.7}},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.T3(in[0], pi(p, "period"), p["vfactor"]))
		},
	}, smoothingChain(6)),
	"HT_TRENDLINE": withLookback(realOnly("overlap", talib.HtTrendline), fixedLookback(htLookback)),
	"MIDPRICE": hlPeriod("overlap", 14, talib.MidPrice),
	"SAR": {
		Group:   "overlap",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow)},
		Params:  []ParamSpec{{Name: "acceleration", Default: 0.02}, {Name: "maximum", Default: 0.2}},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.Sar(in[0], in[1], p["acceleration"], p["maximum"]))
		},
	},

	// momentum indicators
	"ADX": withLookback(hlrPeriod("momentum", 14, talib.Adx), func(p map[string]float64) int {
		return 2 * pi(p, "period")
	}),
	"ADXR": withLookback(hlrPeriod("momentum", 14, talib.AdxR), func(p map[string]float64) int {
		return 3 * pi(p, "period")
	}),
	"AROON": {
		Group:   "momentum",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow)},
		Params:  []ParamSpec{period(14)},
		Outputs: []string{"aroondown", "aroonup"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			down, up := talib.Aroon(in[0], in[1], pi(p, "period"))
			return [][]float64{down, up}
		},
	},
	"AROONOSC": hlPeriod("momentum", 14, talib.AroonOsc),
	"BOP": {
		Group:   "momentum",
		Inputs:  []InputSlot{fixedSlot(SourceOpen), fixedSlot(SourceHigh), fixedSlot(SourceLow), fixedSlot(SourceClose)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(talib.Bop(in[0], in[1], in[2], in[3]))
		},
	},
	"CCI": hlrPeriod("momentum", 14, talib.Cci),
	"CMO": realPeriod("momentum", 14, talib.Cmo),
	"DX":  hlrPeriod("momentum", 14, talib.Dx),
	"MACD": {
		Group:   "momentum",
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{{Name: "fastperiod", Default: 12}, {Name: "slowperiod", Default: 26}, {Name: "signalperiod", Default: 9}},
		Outputs: []string{"macd", "macdsignal", "macdhist"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			macd, signal, hist := talib.Macd(in[0], pi(p, "fastperiod"), pi(p, "slowperiod"), pi(p, "signalperiod"))
			return [][]float64{macd, signal, hist}
		},
	},
	"MFI": {
		Group:   "momentum",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot(), fixedSlot(SourceVolume)},
		Params:  []ParamSpec{period(14)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.Mfi(in[0], in[1], in[2], in[3], pi(p, "period")))
		},
	},
	"MINUS_DI": hlrPeriod("momentum", 14, talib.MinusDI),
	"PLUS_DI":  hlrPeriod("momentum", 14, talib.PlusDI),
	"MINUS_DM": hlPeriod("momentum", 14, talib.MinusDM),
	"PLUS_DM":  hlPeriod("momentum", 14, talib.PlusDM),
	"MOM":      realPeriod("momentum", 10, talib.Mom),
	"APO": {
		Group:   "momentum",
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{{Name: "fastperiod", Default: 12}, {Name: "slowperiod", Default: 26}},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.Apo(in[0], pi(p, "fastperiod"), pi(p, "slowperiod"), talib.SMA))
		},
	},
	"PPO": {
		Group:   "momentum",
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{{Name: "fastperiod", Default: 12}, {Name: "slowperiod", Default: 26}},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.Ppo(in[0], pi(p, "fastperiod"), pi(p, "slowperiod"), talib.SMA))
		},
	},
	"ROC":     realPeriod("momentum", 10, talib.Roc),
	"ROCP":    realPeriod("momentum", 10, talib.Rocp),
	"ROCR":    realPeriod("momentum", 10, talib.Rocr),
	"ROCR100": realPeriod("momentum", 10, talib.Rocr100),
	"RSI":     realPeriod("momentum", 14, talib.Rsi),
	"STOCH": {
		Group:   "momentum",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot()},
		Params:  []ParamSpec{{Name: "fastkperiod", Default: 5}, {Name: "slowkperiod", Default: 3}, {Name: "slowdperiod", Default: 3}},
		Outputs: []string{"slowk", "slowd"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			slowk, slowd := talib.Stoch(in[0], in[1], in[2],
				pi(p, "fastkperiod"), pi(p, "slowkperiod"), talib.SMA, pi(p, "slowdperiod"), talib.SMA)
			return [][]float64{slowk, slowd}
		},
	},
	"STOCHF": {
		Group:   "momentum",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot()},
		Params:  []ParamSpec{{Name: "fastkperiod", Default: 5}, {Name: "fastdperiod", Default: 3}},
		Outputs: []string{"fastk", "fastd"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			fastk, fastd := talib.StochF(in[0], in[1], in[2],
				pi(p, "fastkperiod"), pi(p, "fastdperiod"), talib.SMA)
			return [][]float64{fastk, fastd}
		},
	},
	"STOCHRSI": {
		Group:   "momentum",
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{period(14), {Name: "fastkperiod", Default: 5}, {Name: "fastdperiod", Default: 3}},
		Outputs: []string{"fastk", "fastd"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			fastk, fastd := talib.StochRsi(in[0], pi(p, "period"),
				pi(p, "fastkperiod"), pi(p, "fastdperiod"), talib.SMA)
			return [][]float64{fastk, fastd}
		},
	},
	"ULTOSC": {
		Group:   "momentum",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot()},
		Params:  []ParamSpec{{Name: "timeperiod1", Default: 7}, {Name: "timeperiod2", Default: 14}, {Name: "timeperiod3", Default: 28}},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.UltOsc(in[0], in[1], in[2],
				pi(p, "timeperiod1"), pi(p, "timeperiod2"), pi(p, "timeperiod3")))
		},
	},
	"WILLR": hlrPeriod("momentum", 14, talib.WillR),

	// volume indicators
	"AD": {
		Group:   "volume",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot(), fixedSlot(SourceVolume)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(talib.Ad(in[0], in[1], in[2], in[3]))
		},
	},
	"ADOSC": {
		Group:   "volume",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot(), fixedSlot(SourceVolume)},
		Params:  []ParamSpec{{Name: "fastperiod", Default: 3}, {Name: "slowperiod", Default: 10}},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.AdOsc(in[0], in[1], in[2], in[3], pi(p, "fastperiod"), pi(p, "slowperiod")))
		},
	},
	"OBV": {
		Group:   "volume",
		Inputs:  []InputSlot{realSlot(), fixedSlot(SourceVolume)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(talib.Obv(in[0], in[1]))
		},
	},

	// volatility indicators
	"ATR":  hlrPeriod("volatility", 14, talib.Atr),
	"NATR": hlrPeriod("volatility", 14, talib.Natr),
	"TRANGE": withLookback(Descriptor{
		Group:   "volatility",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot()},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			// True range needs the prior close.
			return one(talib.TRange(in[0], in[1], in[2]))
		},
	}, fixedLookback(1)),

	// price transform
	"AVGPRICE": {
		Group:   "price",
		Inputs:  []InputSlot{fixedSlot(SourceOpen), fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot()},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(talib.AvgPrice(in[0], in[1], in[2], in[3]))
		},
	},
	"MEDPRICE": {
		Group:   "price",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow)},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(talib.MedPrice(in[0], in[1]))
		},
	},
	"TYPPRICE": {
		Group:   "price",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot()},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(talib.TypPrice(in[0], in[1], in[2]))
		},
	},
	"WCLPRICE": {
		Group:   "price",
		Inputs:  []InputSlot{fixedSlot(SourceHigh), fixedSlot(SourceLow), realSlot()},
		Outputs: []string{"real"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			return one(talib.WclPrice(in[0], in[1], in[2]))
		},
	},

	// statistic functions
	"BETA":                hlPeriod("statistics", 5, talib.Beta),
	"CORREL":              hlPeriod("statistics", 30, talib.Correl),
	"LINEARREG":           realPeriod("statistics", 14, talib.LinearReg),
	"LINEARREG_ANGLE":     realPeriod("statistics", 14, talib.LinearRegAngle),
	"LINEARREG_INTERCEPT": realPeriod("statistics", 14, talib.LinearRegIntercept),
	"LINEARREG_SLOPE":     realPeriod("statistics", 14, talib.LinearRegSlope),
	"TSF":                 realPeriod("statistics", 14, talib.Tsf),
	"STDDEV": {
		Group:   "statistics",
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{period(5), {Name: "nbdev", Default: 1}},
		Outputs: []string{"real"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			return one(talib.StdDev(in[0], pi(p, "period"), p["nbdev"]))
		},
	},
	"VAR": realPeriod("statistics", 5, talib.Var),

	// cycle indicators
	"HT_DCPERIOD":  withLookback(realOnly("cycle", talib.HtDcPeriod), fixedLookback(htLookback)),
	"HT_DCPHASE":   withLookback(realOnly("cycle", talib.HtDcPhase), fixedLookback(htLookback)),
	"HT_TRENDMODE": withLookback(realOnly("cycle", talib.HtTrendMode), fixedLookback(htLookback)),
	"HT_PHASOR": withLookback(Descriptor{
		Group:   "cycle",
		Inputs:  []InputSlot{realSlot()},
		Outputs: []string{"inphase", "quadrature"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			inphase, quadrature := talib.HtPhasor(in[0])
			return [][]float64{inphase, quadrature}
		},
	}, fixedLookback(htLookback)),
	"HT_SINE": withLookback(Descriptor{
		Group:   "cycle",
		Inputs:  []InputSlot{realSlot()},
		Outputs: []string{"sine", "leadsine"},
		compute: func(in [][]float64, _ map[string]float64) [][]float64 {
			sine, leadsine := talib.HtSine(in[0])
			return [][]float64{sine, leadsine}
		},
	}, fixedLookback(htLookback)),

	// math transforms
	"ACOS":  realOnly("transform", talib.Acos),
	"ASIN":  realOnly("transform", talib.Asin),
	"ATAN":  realOnly("transform", talib.Atan),
	"CEIL":  realOnly("transform", talib.Ceil),
	"COS":   realOnly("transform", talib.Cos),
	"COSH":  realOnly("transform", talib.Cosh),
	"EXP":   realOnly("transform", talib.Exp),
	"FLOOR": realOnly("transform", talib.Floor),
	"LN":    realOnly("transform", talib.Ln),
	"LOG10": realOnly("transform", talib.Log10),
	"SIN":   realOnly("transform", talib.Sin),
	"SINH":  realOnly("transform", talib.Sinh),
	"SQRT":  realOnly("transform", talib.Sqrt),
	"TAN":   realOnly("transform", talib.Tan),
	"TANH":  realOnly("transform", talib.Tanh),

	// math operators
	"ADD":      twoReal("math", talib.Add),
	"SUB":      twoReal("math", talib.Sub),
	"MULT":     twoReal("math", talib.Mult),
	"DIV":      twoReal("math", talib.Div),
	"MIN":      realPeriod("math", 30, talib.Min),
	"MAX":      realPeriod("math", 30, talib.Max),
	"MAXINDEX": realPeriod("math", 30, talib.MaxIndex),
	"MININDEX": realPeriod("math", 30, talib.MinIndex),
	"SUM":      realPeriod("math", 30, talib.Sum),
	"MINMAX": {
		Group:   "math",
		Inputs:  []InputSlot{realSlot()},
		Params:  []ParamSpec{period(30)},
		Outputs: []string{"min", "max"},
		compute: func(in [][]float64, p map[string]float64) [][]float64 {
			min, max := talib.MinMax(in[0], pi(p, "period"))
			return [][]float64{min, max}
		},
	},
}

func init() {
	for name, desc := range registry {
		desc.Name = name
		registry[name] = desc
	}
}

// Lookup returns the descriptor for an indicator name.
func Lookup(name string) (Descriptor, error) {
	desc, ok := registry[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("market: unknown indicator %q", name)
	}
	return desc, nil
}

// Help renders an indicator's contract: its input slots, parameters with
// defaults, and output series.
func Help(name string) (string, error) {
	desc, err := Lookup(name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", desc.Name, desc.Group)
	b.WriteString("inputs:")
	for _, slot := range desc.Inputs {
		if slot.Selectable {
			fmt.Fprintf(&b, " %s(default %s)", slot.Name, slot.Source)
		} else {
			fmt.Fprintf(&b, " %s", slot.Name)
		}
	}
	b.WriteString("\nparams:")
	if len(desc.Params) == 0 {
		b.WriteString(" none")
	}
	for _, p := range desc.Params {
		fmt.Fprintf(&b, " %s=%v", p.Name, p.Default)
	}
	b.WriteString("\noutputs:")
	for _, out := range desc.Outputs {
		fmt.Fprintf(&b, " %s", out)
	}
	return b.String(), nil
}

// Names lists every registered indicator, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
