package common

// ShortenAddress abbreviates an account address for display: the 0x prefix
// plus the first four and last four hex digits.
// Example: 0x9642...5D4E
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
