package model

type Config struct {
	DataDir string `yaml:"data_dir"`
	Editor  string `yaml:"editor"`
	Scanner struct {
		Device string `yaml:"device"`
	} `yaml:"scanner"`
	Lookup struct {
		Endpoint   string `yaml:"endpoint"`
		TimeoutSec int    `yaml:"timeout_sec"`
		RPS        int    `yaml:"rps"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"lookup"`
}

func DefaultConfig() Config {
	config := Config{
		DataDir: "~/.config/hondana/data",
		Editor:  "vim",
	}
	// バーコードリーダーはデフォルトではキーボード入力扱い（デバイス指定なし）
	config.Scanner.Device = ""
	config.Lookup.Endpoint = "https://www.googleapis.com/books/v1"
	config.Lookup.TimeoutSec = 15
	config.Lookup.RPS = 2
	config.Lookup.MaxRetries = 2
	return config
}
