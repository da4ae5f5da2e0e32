package driver

import (
	"math"

	"mooagg/engine"
)

// PiBody is one Gauss-Legendre round
const PiBody = `y = a;
a = (a + b) / 2;
b = sqrt(b * y);
t = t - (x * (y - a) ** 2);
x = x * 2;
return (a + b) ^ 2 / (4 * t);`

// PiReadout computes the estimate from the converged fields
const PiReadout = `pi = (a + b) ^ 2 / (4 * t);`

// PiSeed returns the starting document for PiBody
func PiSeed() map[string]any {
	return map[string]any{
		"a": int64(1),
		"b": 1 / math.Sqrt2,
		"t": 0.25,
		"x": int64(1),
	}
}

// AddFields rewrites $set stages as $addFields, the read-out form
func AddFields(pipeline []map[string]any) []map[string]any {
	out := make([]map[string]any, len(pipeline))
	for i, stage := range pipeline {
		out[i] = make(map[string]any, len(stage))
		for k, v := range stage {
			if k == engine.StageSet {
				k = engine.StageAddFields
			}
			out[i][k] = v
		}
	}
	return out
}
