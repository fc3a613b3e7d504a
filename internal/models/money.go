package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Money is an amount in minor currency units (paise for INR).
// It is stored as DECIMAL(10,2) and travels over JSON as a "123.45" string.
type Money int64

func NewMoney(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// MaxMoney is the largest amount a DECIMAL(10,2) column holds.
const MaxMoney Money = 9999999999

// maxMoneyDigits bounds the integer part so parsing never overflows int64.
const maxMoneyDigits = 12

// ParseMoney accepts plain decimal strings such as "300", "300.5" or "-300.50".
// Exponents, hex floats and more than two fraction digits are rejected.
// Range is enforced by the money_max validation tag so clients get a field error.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}
	neg := false
	digits := s
	if digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	whole, frac, hasDot := strings.Cut(digits, ".")
	if whole == "" || !isDigits(whole) || (hasDot && (frac == "" || !isDigits(frac))) {
		return 0, fmt.Errorf("money: invalid amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("money: %q has more than two decimal places", s)
	}
	whole = strings.TrimLeft(whole, "0")
	if len(whole) > maxMoneyDigits {
		return 0, fmt.Errorf("money: %q is out of range", s)
	}
	var v int64
	for _, c := range whole {
		v = v*10 + int64(c-'0')
	}
	frac += strings.Repeat("0", 2-len(frac))
	v = v*100 + int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	if neg {
		v = -v
	}
	return Money(v), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// InRange reports whether m fits the stored DECIMAL(10,2) range.
func (m Money) InRange() bool {
	return m >= -MaxMoney && m <= MaxMoney
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

// Mul multiplies the amount by a whole quantity (for example minutes).
func (m Money) Mul(n int) Money {
	return m * Money(n)
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseMoney(s)
		if err != nil {
			return err
		}
		*m = v
		return nil
	}
	v, err := ParseMoney(string(data))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
	case []byte:
		parsed, err := ParseMoney(string(v))
		if err != nil {
			return err
		}
		*m = parsed
	case string:
		parsed, err := ParseMoney(v)
		if err != nil {
			return err
		}
		*m = parsed
	case float64:
		*m = NewMoney(v)
	case int64:
		if v > int64(MaxMoney/100) || v < -int64(MaxMoney/100) {
			return fmt.Errorf("money: %d is out of range", v)
		}
		*m = Money(v * 100)
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
