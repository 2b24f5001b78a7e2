package main

import (
	"errors"
	"fmt"
	"math"
)

var ErrDivisionByZero = errors.New("division by zero")

// Precision is the number of decimals a Calculator rounds to.
type Precision int

type Calculator struct {
	precision int
}

func NewCalculator(p Precision) *Calculator {
	return &Calculator{precision: int(p)}
}

func (c *Calculator) round(v float64) float64 {
	pow := math.Pow10(c.precision)
	return math.Round(v*pow) / pow
}

func (c *Calculator) Add(a, b float64) float64 {
	return c.round(a + b)
}

func (c *Calculator) Multiply(a, b float64) float64 {
	return c.round(a * b)
}

func (c *Calculator) Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return c.round(a / b), nil
}

// ExchangeRates converts between currencies.
type ExchangeRates interface {
	Rate(from, to string) (float64, error)
}

type staticRates map[string]float64

func (r staticRates) Rate(from, to string) (float64, error) {
	rate, ok := r[from+"/"+to]
	if !ok {
		return 0, fmt.Errorf("no rate for %s/%s", from, to)
	}
	return rate, nil
}

// flatRates quotes the same rate for every pair.
type flatRates float64

func (r flatRates) Rate(string, string) (float64, error) {
	return float64(r), nil
}
