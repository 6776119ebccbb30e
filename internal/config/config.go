package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"sumerplus/internal/calculator"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Pay    PayConfig    `toml:"pay"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir    string `toml:"data_dir"`
	InputExcel string `toml:"input_excel"` // 本地批处理的输入工作簿
	OutputDir  string `toml:"output_dir"`  // 本地批处理的 PDF 输出目录
}

// PayConfig 结算参数
type PayConfig struct {
	OwnerPercentage   float64                `toml:"owner_percentage"`
	DriverRatePerMile float64                `toml:"driver_rate_per_mile"`
	CompanyTitle      string                 `toml:"company_title"`
	Deductions        []calculator.Deduction `toml:"deductions"`
}

// Calculator 转换为计算器参数；非法值回退到默认
func (p PayConfig) Calculator() calculator.PayConfig {
	out := calculator.DefaultPayConfig().WithOwnerPercentage(&p.OwnerPercentage)
	if p.DriverRatePerMile > 0 {
		out.DriverRatePerMile = p.DriverRatePerMile
	}
	if p.Deductions != nil {
		out.Deductions = p.Deductions
	}
	return out
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:    "data",
			InputExcel: "loads_data.xlsx",
			OutputDir:  "statements",
		},
		Pay: PayConfig{
			OwnerPercentage:   calculator.DefaultOwnerPercentage,
			DriverRatePerMile: calculator.DefaultDriverRatePerMile,
			CompanyTitle:      "ARBA EXPRESS",
			Deductions:        calculator.DefaultDeductions(),
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(DefaultConfigPath())
}

// LoadConfigFrom 从指定路径加载配置；文件不存在时使用默认配置
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		// 扣款表整体替换，不与默认值合并
		config.Pay.Deductions = nil
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", configPath, err)
		}
		if config.Pay.Deductions == nil {
			config.Pay.Deductions = calculator.DefaultDeductions()
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv 环境变量覆盖（用于本地运行/部署）
func applyEnv(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("SUMERPLUS_INPUT_EXCEL")); v != "" {
		config.Data.InputExcel = v
	}
	if v := strings.TrimSpace(os.Getenv("SUMERPLUS_OUTPUT_DIR")); v != "" {
		config.Data.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SUMERPLUS_DATA_DIR")); v != "" {
		config.Data.DataDir = v
	}
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, configPath string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 相对路径以可执行文件所在目录为基准
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DatabasePath 数据目录下的 sqlite 文件
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, "sumerplus.db")
}
