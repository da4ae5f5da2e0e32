package engine

import (
	"math"

	"mooagg/types"
)

// opFunc evaluates an operator over already evaluated arguments
type opFunc func(op string, args []types.Value) (types.Value, error)

var operators = map[string]opFunc{
	"$add":      variadicArith(addPair),
	"$multiply": variadicArith(multiplyPair),
	"$subtract": evalSubtract,
	"$divide":   binaryArith(dividePair),
	"$pow":      binaryArith(powerPair),
	"$mod":      binaryArith(moduloPair),
	"$sqrt":     unaryMath(sqrtOf),
	"$abs":      unaryMath(absOf),
	"$exp":      unaryMath(floatFunc(math.Exp)),
	"$ln":       unaryMath(logOf(math.Log)),
	"$log10":    unaryMath(logOf(math.Log10)),
	"$floor":    unaryMath(roundWith(math.Floor)),
	"$ceil":     unaryMath(roundWith(math.Ceil)),
	"$and":      evalAnd,
	"$or":       evalOr,
	"$not":      evalNot,
}

// Operators lists the operator tags the engine understands
func Operators() []string {
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}
	return names
}

// toNumeric promotes v for arithmetic. isNull reports a null operand,
// which makes the whole expression null.
func toNumeric(v types.Value) (i int64, f float64, isFloat, isNull, ok bool) {
	switch val := v.(type) {
	case types.IntValue:
		return val.Val, float64(val.Val), false, false, true
	case types.FloatValue:
		return 0, val.Val, true, false, true
	case types.NullValue:
		return 0, 0, false, true, true
	default:
		return 0, 0, false, false, false
	}
}

type pairFunc func(op string, left, right types.Value) (types.Value, error)

func variadicArith(pair pairFunc) opFunc {
	return func(op string, args []types.Value) (types.Value, error) {
		var acc types.Value = types.NewInt(0)
		if op == "$multiply" {
			acc = types.NewInt(1)
		}
		for _, arg := range args {
			v, err := pair(op, acc, arg)
			if err != nil {
				return nil, err
			}
			if v.Type() == types.TYPE_NULL {
				return types.Null, nil
			}
			acc = v
		}
		return acc, nil
	}
}

func binaryArith(pair pairFunc) opFunc {
	return func(op string, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return nil, execErr(types.E_ARGS, op, "takes exactly 2 arguments, got %d", len(args))
		}
		return pair(op, args[0], args[1])
	}
}

// evalSubtract negates a single operand and subtracts a pair
func evalSubtract(op string, args []types.Value) (types.Value, error) {
	switch len(args) {
	case 1:
		return unaryMath(negate)(op, args)
	case 2:
		return subtractPair(op, args[0], args[1])
	}
	return nil, execErr(types.E_ARGS, op, "takes 1 or 2 arguments, got %d", len(args))
}

// numericPair unpacks two operands, reporting null or a type error
func numericPair(op string, left, right types.Value) (li, ri int64, lf, rf float64, isFloat, isNull bool, err error) {
	li, lf, lIsFloat, lNull, lok := toNumeric(left)
	ri, rf, rIsFloat, rNull, rok := toNumeric(right)
	if !lok || !rok {
		return 0, 0, 0, 0, false, false,
			execErr(types.E_TYPE, op, "only supports numeric types, not %s and %s", left.Type(), right.Type())
	}
	return li, ri, lf, rf, lIsFloat || rIsFloat, lNull || rNull, nil
}

func floatResult(op string, f float64) (types.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, execErr(types.E_FLOAT, op, "result %v", f)
	}
	return types.NewFloat(f), nil
}

func addPair(op string, left, right types.Value) (types.Value, error) {
	li, ri, lf, rf, isFloat, isNull, err := numericPair(op, left, right)
	if err != nil || isNull {
		return types.Null, err
	}
	if isFloat {
		return floatResult(op, lf+rf)
	}
	if sum, ok := addInt(li, ri); ok {
		return types.NewInt(sum), nil
	}
	return floatResult(op, lf+rf)
}

func subtractPair(op string, left, right types.Value) (types.Value, error) {
	li, ri, lf, rf, isFloat, isNull, err := numericPair(op, left, right)
	if err != nil || isNull {
		return types.Null, err
	}
	if isFloat {
		return floatResult(op, lf-rf)
	}
	if diff, ok := subtractInt(li, ri); ok {
		return types.NewInt(diff), nil
	}
	return floatResult(op, lf-rf)
}

func multiplyPair(op string, left, right types.Value) (types.Value, error) {
	li, ri, lf, rf, isFloat, isNull, err := numericPair(op, left, right)
	if err != nil || isNull {
		return types.Null, err
	}
	if isFloat {
		return floatResult(op, lf*rf)
	}
	if product, ok := multiplyInt(li, ri); ok {
		return types.NewInt(product), nil
	}
	return floatResult(op, lf*rf)
}

// Integer results that do not fit in 64 bits fall back to a double.

func addInt(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func subtractInt(a, b int64) (int64, bool) {
	r := a - b
	if (b > 0 && r > a) || (b < 0 && r < a) {
		return 0, false
	}
	return r, true
}

func multiplyInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return r, true
}

// dividePair always produces a double, as the aggregation $divide does
func dividePair(op string, left, right types.Value) (types.Value, error) {
	_, _, lf, rf, _, isNull, err := numericPair(op, left, right)
	if err != nil || isNull {
		return types.Null, err
	}
	if rf == 0 {
		return nil, execErr(types.E_DIV, op, "can't divide by zero")
	}
	return floatResult(op, lf/rf)
}

// powerPair keeps integer results for integer operands when the result
// is whole and fits
func powerPair(op string, left, right types.Value) (types.Value, error) {
	_, _, lf, rf, isFloat, isNull, err := numericPair(op, left, right)
	if err != nil || isNull {
		return types.Null, err
	}
	if lf == 0 && rf < 0 {
		return nil, execErr(types.E_DIV, op, "zero raised to a negative power")
	}

	result := math.Pow(lf, rf)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil, execErr(types.E_FLOAT, op, "result %v", result)
	}
	if isFloat {
		return types.NewFloat(result), nil
	}
	if result == math.Floor(result) && result >= math.MinInt64 && result < math.MaxInt64 {
		return types.NewInt(int64(result)), nil
	}
	return types.NewFloat(result), nil
}

// moduloPair truncates toward zero: the result takes the dividend's sign
func moduloPair(op string, left, right types.Value) (types.Value, error) {
	li, ri, lf, rf, isFloat, isNull, err := numericPair(op, left, right)
	if err != nil || isNull {
		return types.Null, err
	}
	if rf == 0 {
		return nil, execErr(types.E_DIV, op, "can't take a remainder by zero")
	}
	if isFloat {
		return floatResult(op, math.Mod(lf, rf))
	}
	return types.NewInt(li % ri), nil
}

type mathFunc func(op string, i int64, f float64, isFloat bool) (types.Value, error)

func unaryMath(fn mathFunc) opFunc {
	return func(op string, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return nil, execErr(types.E_ARGS, op, "takes exactly 1 argument, got %d", len(args))
		}
		i, f, isFloat, isNull, ok := toNumeric(args[0])
		if !ok {
			return nil, execErr(types.E_TYPE, op, "only supports numeric types, not %s", args[0].Type())
		}
		if isNull {
			return types.Null, nil
		}
		return fn(op, i, f, isFloat)
	}
}

func sqrtOf(op string, _ int64, f float64, _ bool) (types.Value, error) {
	if f < 0 {
		return nil, execErr(types.E_INVARG, op, "argument must be greater than or equal to 0")
	}
	return types.NewFloat(math.Sqrt(f)), nil
}

func absOf(op string, i int64, f float64, isFloat bool) (types.Value, error) {
	if isFloat {
		return types.NewFloat(math.Abs(f)), nil
	}
	if i == math.MinInt64 {
		return types.NewFloat(-f), nil
	}
	if i < 0 {
		return types.NewInt(-i), nil
	}
	return types.NewInt(i), nil
}

func negate(op string, i int64, f float64, isFloat bool) (types.Value, error) {
	if isFloat || i == math.MinInt64 {
		return types.NewFloat(-f), nil
	}
	return types.NewInt(-i), nil
}

func floatFunc(fn func(float64) float64) mathFunc {
	return func(op string, _ int64, f float64, _ bool) (types.Value, error) {
		return floatResult(op, fn(f))
	}
}

func logOf(fn func(float64) float64) mathFunc {
	return func(op string, _ int64, f float64, _ bool) (types.Value, error) {
		if f <= 0 {
			return nil, execErr(types.E_INVARG, op, "argument must be a positive number")
		}
		return floatResult(op, fn(f))
	}
}

// roundWith leaves integers alone
func roundWith(fn func(float64) float64) mathFunc {
	return func(op string, i int64, f float64, isFloat bool) (types.Value, error) {
		if !isFloat {
			return types.NewInt(i), nil
		}
		return types.NewFloat(fn(f)), nil
	}
}

// Boolean operators evaluate every argument; there is no short circuit.

func evalAnd(_ string, args []types.Value) (types.Value, error) {
	result := true
	for _, arg := range args {
		result = result && arg.Truthy()
	}
	return types.NewBool(result), nil
}

func evalOr(_ string, args []types.Value) (types.Value, error) {
	result := false
	for _, arg := range args {
		result = result || arg.Truthy()
	}
	return types.NewBool(result), nil
}

func evalNot(op string, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return nil, execErr(types.E_ARGS, op, "takes exactly 1 argument, got %d", len(args))
	}
	return types.NewBool(!args[0].Truthy()), nil
}
