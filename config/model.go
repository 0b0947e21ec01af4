package config

type Config struct {
	LogLevel   string    `mapstructure:"LogLevel"`
	LogPath    string    `mapstructure:"LogPath"`
	IPFilePath string    `mapstructure:"IPFilePath"`
	Targets    string    `mapstructure:"Targets"`
	TTL        int64     `mapstructure:"TTL"`
	Network    string    `mapstructure:"Network"`
	Timeout    int       `mapstructure:"Timeout"`
	Resolver   *Resolver `mapstructure:"Resolver"`
	AWS        *AWS      `mapstructure:"AWS"`
	Notify     *Notify   `mapstructure:"Notify"`
}

type Resolver struct {
	Primary   string `mapstructure:"Primary"`
	Secondary string `mapstructure:"Secondary"`
}

type AWS struct {
	AccessKeyID     string `mapstructure:"AccessKeyID"`
	SecretAccessKey string `mapstructure:"SecretAccessKey"`
	Region          string `mapstructure:"Region"`
	Profile         string `mapstructure:"Profile"`
}

type Notify struct {
	Enable   bool              `mapstructure:"Enable"`
	Provider string            `mapstructure:"Provider"`
	Config   map[string]string `mapstructure:"Config"`
}
