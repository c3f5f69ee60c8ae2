package services

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

const (
	spanDays        = 30
	categorySamples = 200

	minRevenue, maxRevenue   = 1000, 10000
	minVisitors, maxVisitors = 100, 1000
	minConversion            = 0.01
	maxConversion            = 0.2
	minQuantity, maxQuantity = 10, 200
)

// Generate builds the sales and category tables for the 30 days ending on
// today. The same seed and calendar day always produce the same tables.
func Generate(seed uint64, today time.Time) models.Dataset {
	rng := rand.New(rand.NewPCG(seed, seed))

	end := truncateDay(today)
	start := end.AddDate(0, 0, -(spanDays - 1))

	dates := make([]time.Time, spanDays)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	n := spanDays * len(models.Regions)

	// Each column is sampled in full before the next so the sequence drawn
	// from rng stays fixed for a given seed.
	revenue := make([]int64, n)
	for i := range revenue {
		revenue[i] = intInRange(rng, minRevenue, maxRevenue)
	}
	visitors := make([]int64, n)
	for i := range visitors {
		visitors[i] = intInRange(rng, minVisitors, maxVisitors)
	}
	conversion := make([]float64, n)
	for i := range conversion {
		raw := minConversion + rng.Float64()*(maxConversion-minConversion)
		conversion[i] = decimal.NewFromFloat(raw).Round(3).InexactFloat64()
	}

	sales := make([]models.SalesRecord, 0, n)
	for r, region := range models.Regions {
		for d, date := range dates {
			i := r*spanDays + d
			sales = append(sales, models.SalesRecord{
				Date:           date,
				Region:         region,
				Revenue:        revenue[i],
				Visitors:       visitors[i],
				ConversionRate: conversion[i],
			})
		}
	}

	categories := make([]string, categorySamples)
	for i := range categories {
		categories[i] = models.Categories[rng.IntN(len(models.Categories))]
	}
	catSales := make([]models.CategorySale, categorySamples)
	for i := range catSales {
		catSales[i] = models.CategorySale{
			Category: categories[i],
			Quantity: intInRange(rng, minQuantity, maxQuantity),
		}
	}

	return models.Dataset{
		Sales:       sales,
		Categories:  catSales,
		Start:       start,
		End:         end,
		Seed:        seed,
		GeneratedAt: time.Now(),
	}
}

// intInRange samples uniformly from [lo, hi).
func intInRange(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int64N(hi-lo)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
