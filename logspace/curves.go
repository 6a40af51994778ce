// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logspace

import (
	"math"

	"cogentcore.org/core/math32"
)

// logEps is the smallest argument ever passed to a logarithm. Every
// log segment floors its argument here so that zero or negative linear
// values cannot produce NaN or -Inf.
const logEps = 1e-10

func log10c(x float32) float32 {
	return math32.Log10(math32.Max(x, logEps))
}

func log2c(x float32) float32 {
	return math32.Log2(math32.Max(x, logEps))
}

func lnc(x float32) float32 {
	return math32.Log(math32.Max(x, logEps))
}

// Fujifilm F-Log, from the published F-Log data sheet:
// below cut E·x + F, above c·log10(a·x + b) + d.
const (
	flogCut = 0.00089
	flogA   = 0.555556
	flogB   = 0.009468
	flogC   = 0.344676
	flogD   = 0.790453
	flogE   = 8.735631
	flogF   = 0.092864
)

func encodeFLog(x float32) float32 {
	if x < flogCut {
		return flogE*x + flogF
	}
	return flogC*log10c(flogA*x+flogB) + flogD
}

// Fujifilm F-Log2, same form as F-Log with the second published
// constant set.
const (
	flog2Cut = 0.000889
	flog2A   = 5.555556
	flog2B   = 0.064829
	flog2C   = 0.245281
	flog2D   = 0.384316
	flog2E   = 8.799461
	flog2F   = 0.092864
)

func encodeFLog2(x float32) float32 {
	if x < flog2Cut {
		return flog2E*x + flog2F
	}
	return flog2C*log10c(flog2A*x+flog2B) + flog2D
}

// Sony S-Log3, in the 10-bit code value form of the published spec,
// normalized by 1023.
const slog3Cut = 0.01125

func encodeSLog3(x float32) float32 {
	if x >= slog3Cut {
		return (420 + 261.5*log10c((x+0.01)/0.19)) / 1023
	}
	return (x*(171.2102946929-95)/0.01125 + 95) / 1023
}

// Panasonic V-Log.
const (
	vlogCut = 0.01
	vlogB   = 0.00873
	vlogC   = 0.241514
	vlogD   = 0.598206
)

func encodeVLog(x float32) float32 {
	if x < vlogCut {
		return 5.6*x + 0.125
	}
	return vlogC*log10c(x+vlogB) + vlogD
}

// Nikon N-Log: cube root below the cut, natural log above, in 10-bit
// code values normalized by 1023.
const nlogCut = 0.328

func encodeNLog(x float32) float32 {
	if x < nlogCut {
		return 650 * math32.Cbrt(x+0.0075) / 1023
	}
	return (150*lnc(x) + 619) / 1023
}

// Canon Log (original), symmetric about zero.
const (
	clogSlope  = 0.529136
	clogGain   = 10.1596
	clogOffset = 0.0730597
)

func encodeCLog(x float32) float32 {
	if x < 0 {
		return -clogSlope*log10c(1-clogGain*x) + clogOffset
	}
	return clogSlope*log10c(clogGain*x+1) + clogOffset
}

// Canon Log 3, three branches. The negative log branch must be
// selected for inputs below -clog3Cut.
const (
	clog3Cut   = 0.014
	clog3Slope = 0.42889912
	clog3Gain  = 14.98325
)

func encodeCLog3(x float32) float32 {
	if x < -clog3Cut {
		return -clog3Slope*log10c(1-clog3Gain*x) + 0.07623209
	}
	if x <= clog3Cut {
		return 2.3069815*x + 0.073059361
	}
	return clog3Slope*log10c(clog3Gain*x+1) + 0.069886632
}

// ARRI LogC3 at EI 800.
const (
	logc3Cut = 0.010591
	logc3A   = 5.555556
	logc3B   = 0.052272
	logc3C   = 0.24719
	logc3D   = 0.385537
	logc3E   = 5.367655
	logc3F   = 0.092809
)

func encodeLogC3(x float32) float32 {
	if x < logc3Cut {
		return logc3E*x + logc3F
	}
	return logc3C*log10c(logc3A*x+logc3B) + logc3D
}

// ARRI LogC4 constants, derived exactly as published: a maps scene
// linear onto the 18-stop code range, b/c place the 10-bit legal range,
// and s/t define the linear extension below the log segment.
const (
	logc4A = (262144.0 - 16) / 117.45 // (2^18 − 16) / 117.45
	logc4B = (1023.0 - 95) / 1023
	logc4C = 95.0 / 1023
)

var (
	logc4S = float32(7 * math.Ln2 * math.Exp2(7-14*logc4C/logc4B) / (logc4A * logc4B))
	logc4T = float32((math.Exp2(14*(-logc4C/logc4B)+6) - 64) / logc4A)
)

func encodeLogC4(x float32) float32 {
	if x < logc4T {
		return (x - logc4T) / logc4S
	}
	return (log2c(logc4A*x+64)-6)/14*logc4B + logc4C
}

// RED Log3G10: the cut is shifted by +0.01 so that a zero input
// encodes exactly to zero.
const (
	log3g10A = 0.224282
	log3g10B = 155.975327
	log3g10C = 0.01
	log3g10G = 15.1927
)

func encodeLog3G10(x float32) float32 {
	v := x + log3g10C
	if v < 0 {
		return v * log3g10G
	}
	return log3g10A * log10c(v*log3g10B+1)
}

// Leica L-Log.
const (
	llogCut = 0.006
	llogA   = 1.3
	llogB   = 0.0115
	llogC   = 0.27
	llogD   = 0.601
)

func encodeLLog(x float32) float32 {
	if x < llogCut {
		return 8*x + 0.09
	}
	return llogC*log10c(llogA*x+llogB) + llogD
}

// Blackmagic Film Generation 5, carried in log2 form: the published
// natural-log coefficient A = 0.08692876065491224 becomes A·ln2.
const (
	bmd5Cut   = 0.005
	bmd5A     = 0.0602543897 // 0.08692876065491224 · ln 2
	bmd5B     = 0.005494072432257808
	bmd5C     = 0.5300133392291939
	bmd5Slope = 8.283605932402494
	bmd5Off   = 0.09246575342465753
)

func encodeBMDFilm5(x float32) float32 {
	if x < bmd5Cut {
		return bmd5Slope*x + bmd5Off
	}
	return bmd5A*log2c(x+bmd5B) + bmd5C
}
