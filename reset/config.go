// Package reset supplies architectural reset values for a register file.
//
// The register file itself holds no reset policy. This package is the caller
// that decides what a freshly reset or INIT-ed vCPU looks like.
package reset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/x86state/rflags"
)

// SegmentConfig holds the cached descriptor state loaded into a segment or
// table register at reset.
type SegmentConfig struct {
	Selector uint16 `json:"selector"`
	Base     uint64 `json:"base"`
	Limit    uint32 `json:"limit"`
	Access   uint16 `json:"access"`
}

// Config holds the register values applied at reset.
// Defaults follow the documented power-up state of x86-64 processors.
type Config struct {
	// RIP is the initial instruction pointer. Default: 0xFFF0.
	RIP uint64 `json:"rip"`

	// RFLAGS is the initial packed flags value. Default: 0x2.
	RFLAGS uint64 `json:"rflags"`

	// RDX holds the processor signature after reset. Default: 0x600.
	RDX uint64 `json:"rdx"`

	// CS is the code segment. Default: selector 0xF000, base 0xFFFF0000.
	CS SegmentConfig `json:"cs"`

	// Data is loaded into ES, SS, DS, FS and GS. Default: base 0, limit 0xFFFF.
	Data SegmentConfig `json:"data"`

	// GDTR and IDTR default to base 0, limit 0xFFFF.
	GDTR SegmentConfig `json:"gdtr"`
	IDTR SegmentConfig `json:"idtr"`

	// LDTR and TR default to a present system segment with limit 0xFFFF.
	LDTR SegmentConfig `json:"ldtr"`
	TR   SegmentConfig `json:"tr"`

	// FCW, FSW and FTW are the x87 control, status and tag words.
	// Power-up defaults: 0x0040, 0x0000, 0x5555.
	FCW uint16 `json:"fcw"`
	FSW uint16 `json:"fsw"`
	FTW uint16 `json:"ftw"`

	// KeepFPU leaves the x87 state alone when applying the config, which is
	// what an INIT signal does.
	KeepFPU bool `json:"keep_fpu"`
}

// DefaultConfig returns the power-up reset values.
func DefaultConfig() *Config {
	return &Config{
		RIP:    0xFFF0,
		RFLAGS: 0x2,
		RDX:    0x600,
		CS: SegmentConfig{
			Selector: 0xF000,
			Base:     0xFFFF0000,
			Limit:    0xFFFF,
			Access:   0x9B,
		},
		Data: SegmentConfig{Limit: 0xFFFF, Access: 0x93},
		GDTR: SegmentConfig{Limit: 0xFFFF},
		IDTR: SegmentConfig{Limit: 0xFFFF},
		LDTR: SegmentConfig{Limit: 0xFFFF, Access: 0x82},
		TR:   SegmentConfig{Limit: 0xFFFF, Access: 0x8B},
		FCW:  0x0040,
		FSW:  0x0000,
		FTW:  0x5555,
	}
}

// InitConfig returns the values applied on INIT. x87 state is preserved.
func InitConfig() *Config {
	c := DefaultConfig()
	c.KeepFPU = true
	return c
}

// FINITConfig returns power-up values with the x87 unit in the state FNINIT
// leaves it in.
func FINITConfig() *Config {
	c := DefaultConfig()
	c.FCW = 0x037F
	c.FTW = 0xFFFF
	return c
}

// Profile returns a named preset: "power-on", "init" or "finit".
func Profile(name string) (*Config, error) {
	switch name {
	case "", "power-on":
		return DefaultConfig(), nil
	case "init":
		return InitConfig(), nil
	case "finit":
		return FINITConfig(), nil
	}
	return nil, fmt.Errorf("unknown reset profile %q", name)
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their power-up defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reset config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse reset config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize reset config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write reset config file: %w", err)
	}

	return nil
}

// Validate checks the values that hardware would never produce at reset.
func (c *Config) Validate() error {
	if c.RFLAGS&rflags.Fixed == 0 {
		return fmt.Errorf("rflags must have bit 1 set")
	}
	if c.RFLAGS&^rflags.Mask != 0 {
		return fmt.Errorf("rflags 0x%x sets reserved bits", c.RFLAGS)
	}
	if c.FSW&0x3800 != 0 {
		return fmt.Errorf("fsw must start with TOP = 0")
	}
	if c.GDTR.Limit > 0xFFFF || c.IDTR.Limit > 0xFFFF {
		return fmt.Errorf("gdtr and idtr limits must fit in 16 bits")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
