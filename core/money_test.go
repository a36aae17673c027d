package core_test

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/core"
)

func Test_Money_RoundsToCents(t *testing.T) {
	assert.Equal(t, "2.35", core.NewMoney(decimal.RequireFromString("2.345")).String())
	assert.Equal(t, "0.10", core.NewMoney(decimal.RequireFromString("0.1")).String())
	assert.Equal(t, int64(1234), core.NewMoney(decimal.RequireFromString("12.34")).Cents())
	assert.Equal(t, "0.00", core.Money{}.String())
}

func Test_Money_Arithmetic(t *testing.T) {
	sum := core.Dollars(1).Add(core.MoneyFromCents(50))
	assert.Equal(t, "1.50", sum.String())
	assert.Equal(t, "7.50", sum.Times(5).String())
	assert.True(t, sum.IsPositive())
	assert.True(t, core.Money{}.IsZero())
	assert.True(t, core.MoneyFromCents(-1).IsNegative())
	assert.True(t, core.Dollars(3).Equal(core.MoneyFromCents(300)))
}

func Test_ParseMoney(t *testing.T) {
	m, err := core.ParseMoney(" 10.5 ")
	require.NoError(t, err)
	assert.Equal(t, "10.50", m.String())

	_, err = core.ParseMoney("ten")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func Test_Money_JSON(t *testing.T) {
	type payload struct {
		Fine core.Money `json:"fine"`
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload{Fine: core.Dollars(3)})
	require.NoError(t, err)
	assert.Equal(t, `{"fine":3.00}`, string(data))

	var fromNumber, fromString payload
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(`{"fine":4.5}`), &fromNumber))
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(`{"fine":"4.50"}`), &fromString))
	assert.Equal(t, "4.50", fromNumber.Fine.String())
	assert.True(t, fromNumber.Fine.Equal(fromString.Fine))
}
