package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pnl "go-oiltrade-pnl"
)

type mock struct {
	quotes pnl.Rates
	err    error
}

func (m *mock) Latest(_ context.Context, _ pnl.Currency) (pnl.Rates, error) {
	return m.quotes, m.err
}

func TestService_Convert(t *testing.T) {
	rs := &mock{
		quotes: pnl.Rates{
			pnl.USD: 2.0,
			pnl.MDL: 20.0,
		},
	}

	service := &service{
		base:         pnl.EUR,
		ratesService: rs,
	}

	type args struct {
		amount pnl.Amount
		from   pnl.Currency
		to     pnl.Currency
	}
	tests := []struct {
		name    string
		args    args
		want    pnl.Exchanged
		wantErr bool
	}{
		{
			"eur -> usd",
			args{10.0, pnl.EUR, pnl.USD},
			pnl.Exchanged{Rate: 2.0, Amount: 20.0},
			false,
		},
		{
			"eur -> mdl",
			args{10.0, pnl.EUR, pnl.MDL},
			pnl.Exchanged{Rate: 20.0, Amount: 200.0},
			false,
		},
		{
			"usd -> mdl",
			args{10.0, pnl.USD, pnl.MDL},
			pnl.Exchanged{Rate: 10.0, Amount: 100.0},
			false,
		},
		{
			"usd -> eur",
			args{10.0, pnl.USD, pnl.EUR},
			pnl.Exchanged{Rate: 0.5, Amount: 5.0},
			false,
		},
		{
			"eur -> xyz",
			args{10.0, pnl.EUR, "XYZ"},
			pnl.Exchanged{},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Convert(context.Background(), tt.args.amount, tt.args.from, tt.args.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("Convert() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.InDelta(t, float64(tt.want.Rate), float64(got.Rate), 1e-9)
			assert.InDelta(t, float64(tt.want.Amount), float64(got.Amount), 1e-9)
		})
	}
}

func TestService_Snapshot(t *testing.T) {
	service := NewService(pnl.EUR, &mock{
		quotes: pnl.Rates{pnl.USD: 1.164, pnl.MDL: 19.5},
	})

	snapshot, err := service.Snapshot(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, pnl.EUR, snapshot.Base)
	assert.Equal(t, pnl.Rate(1), snapshot.Quotes[pnl.EUR]) // base always quotes at 1
	assert.Equal(t, pnl.Rate(1.164), snapshot.Quotes[pnl.USD])
	assert.False(t, snapshot.Taken.IsZero())
}

func TestService_SnapshotError(t *testing.T) {
	service := NewService(pnl.EUR, &mock{
		err: &pnl.RateFetchError{URL: "http://example.invalid", Err: errors.New("down")},
	})

	_, err := service.Snapshot(context.Background())

	var fetchErr *pnl.RateFetchError
	assert.True(t, errors.As(err, &fetchErr))
}
