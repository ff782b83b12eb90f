package services

import (
	"errors"
	"fmt"
)

// Allocation splits a monthly budget into the four envelopes shown on the
// money planner page. Amounts are whole rupiah.
type Allocation struct {
	Donasi   int64 `json:"donasi"`
	Tabungan int64 `json:"tabungan"`
	Jajan    int64 `json:"jajan"`
	Darurat  int64 `json:"darurat"`
}

type allocationRates struct {
	donasi   int64
	tabungan int64
	jajan    int64
}

// Percent splits per school tier. The emergency share is whatever remains,
// which also absorbs rounding from the integer division.
var ratesByJenjang = map[string]allocationRates{
	"SD":   {donasi: 10, tabungan: 30, jajan: 40},
	"SMP":  {donasi: 15, tabungan: 25, jajan: 40},
	"SMA":  {donasi: 5, tabungan: 40, jajan: 35},
	"UMUM": {donasi: 10, tabungan: 20, jajan: 50},
}

var ErrUnknownJenjang = errors.New("unknown jenjang")

type AllocationService struct{}

func NewAllocationService() *AllocationService {
	return &AllocationService{}
}

func (s *AllocationService) Calculate(jenjang string, total int64) (Allocation, error) {
	if total < 0 {
		return Allocation{}, fmt.Errorf("total must not be negative, got %d", total)
	}

	rates, ok := ratesByJenjang[jenjang]
	if !ok {
		return Allocation{}, fmt.Errorf("%w: %q", ErrUnknownJenjang, jenjang)
	}

	alloc := Allocation{
		Donasi:   total * rates.donasi / 100,
		Tabungan: total * rates.tabungan / 100,
		Jajan:    total * rates.jajan / 100,
	}
	alloc.Darurat = total - alloc.Donasi - alloc.Tabungan - alloc.Jajan

	return alloc, nil
}
