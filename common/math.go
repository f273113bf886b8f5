package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HexToBig decodes a 0x-prefixed hex quantity into a big int.
func HexToBig(hex string) (*big.Int, error) {
	return hexutil.DecodeBig(hex)
}

// BigToFloat converts a big int to float according to its number of decimal digits
// Example:
// - BigToFloat(1100, 3) = 1.1
// - BigToFloat(1100, 2) = 11
// - BigToFloat(1100, 5) = 0.011
func BigToFloat(b *big.Int, decimal int64) float64 {
	f := new(big.Float).SetInt(b)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(decimal), nil,
	))
	res := new(big.Float).Quo(f, power)
	result, _ := res.Float64()
	return result
}

// FormatUnits renders value/10^decimal as a decimal string with exactly
// precision fractional digits.
// Example:
// - FormatUnits(big.NewInt(1100), 3, 4) = "1.1000"
// - FormatUnits(big.NewInt(1100), 5, 4) = "0.0110"
func FormatUnits(value *big.Int, decimal int64, precision int) string {
	f := new(big.Float).SetInt(value)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(decimal), nil,
	))
	res := new(big.Float).Quo(f, power)
	return res.Text('f', precision)
}

// WeiToEthString renders a wei amount as the native token amount with
// 4 fractional digits, the precision the wallet card displays.
func WeiToEthString(wei *big.Int) string {
	return FormatUnits(wei, 18, 4)
}
