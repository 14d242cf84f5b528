package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Universe is the ordered set of tradable symbols to screen, minus the
// exclusion set. Exclusions name stable-value assets: a bullish-trend rule
// is meaningless for anything pegged to its quote currency.
type Universe struct {
	Symbols  []string `yaml:"symbols"`
	Excluded []string `yaml:"excluded"`
}

// LoadUniverse reads a universe YAML file, or returns the built-in default
// when path is empty.
func LoadUniverse(path string) (*Universe, error) {
	if path == "" {
		return DefaultUniverse(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("universe file: %w", err)
	}
	var u Universe
	if err := yaml.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("universe file %s: %w", path, err)
	}
	if len(u.Symbols) == 0 {
		return nil, fmt.Errorf("universe file %s: no symbols", path)
	}
	return &u, nil
}

// Screenable returns the symbols with exclusions filtered out, preserving
// order. Excluded symbols absent from the list are ignored.
func (u *Universe) Screenable() []string {
	excluded := make(map[string]bool, len(u.Excluded))
	for _, s := range u.Excluded {
		excluded[s] = true
	}
	out := make([]string, 0, len(u.Symbols))
	for _, s := range u.Symbols {
		if !excluded[s] {
			out = append(out, s)
		}
	}
	return out
}

// DefaultUniverse returns the built-in top-of-market USDT universe. The
// exclusion list carries a few stable-value symbols not present above
// (TUSD, BUSD); they are kept so a broader symbols list stays filtered.
func DefaultUniverse() *Universe {
	return &Universe{
		Symbols: []string{
			"BTC/USDT", "ETH/USDT", "BNB/USDT", "SOL/USDT", "USDC/USDT",
			"XRP/USDT", "DOGE/USDT", "TRX/USDT", "TON/USDT", "ADA/USDT",
			"AVAX/USDT", "SHIB/USDT", "LINK/USDT", "BCH/USDT", "DOT/USDT",
			"NEAR/USDT", "SUI/USDT", "LEO/USDT", "DAI/USDT", "APT/USDT",
			"LTC/USDT", "UNI/USDT", "TAO/USDT", "PEPE/USDT", "ICP/USDT",
			"FET/USDT", "KAS/USDT", "FDUSD/USDT", "XMR/USDT", "RENDER/USDT",
			"ETC/USDT", "POL/USDT", "XLM/USDT", "STX/USDT", "WIF/USDT",
			"IMX/USDT", "OKB/USDT", "AAVE/USDT", "FIL/USDT", "OP/USDT",
			"INJ/USDT", "HBAR/USDT", "FTM/USDT", "MNT/USDT", "CRO/USDT",
			"ARB/USDT", "VET/USDT", "SEI/USDT", "ATOM/USDT", "RUNE/USDT",
			"GRT/USDT", "BONK/USDT", "BGB/USDT", "FLOKI/USDT", "TIA/USDT",
			"THETA/USDT", "WLD/USDT", "OM/USDT", "POPCAT/USDT", "AR/USDT",
			"PYTH/USDT", "MKR/USDT", "ENA/USDT", "JUP/USDT", "BRETT/USDT",
			"HNT/USDT", "ALGO/USDT", "ONDO/USDT", "LDO/USDT", "KCS/USDT",
			"MATIC/USDT", "JASMY/USDT", "BSV/USDT", "CORE/USDT", "AERO/USDT",
			"BTT/USDT", "NOT/USDT", "FLOW/USDT", "GT/USDT", "W/USDT",
			"STRK/USDT", "NEIRO/USDT", "BEAM/USDT", "QNT/USDT", "GALA/USDT",
			"ORDI/USDT", "CFX/USDT", "FLR/USDT", "USDD/USDT", "EGLD/USDT",
			"NEO/USDT", "AXS/USDT", "EOS/USDT", "MOG/USDT", "XEC/USDT",
			"CHZ/USDT", "MEW/USDT", "XTZ/USDT", "CKB/USDT",
		},
		Excluded: []string{
			"USDC/USDT", "DAI/USDT", "USDD/USDT", "FDUSD/USDT", "TUSD/USDT", "BUSD/USDT",
		},
	}
}
