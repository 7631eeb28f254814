package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bayraktare/pmt/pkg/config"
)

// ProjectConfig 项目配置
type ProjectConfig struct {
	Name             string   `yaml:"name"`
	LeadOrganization string   `yaml:"lead_organization"`
	Partners         []string `yaml:"partners"`
	Seed             bool     `yaml:"seed"`
}

// NotifierConfig notifier 消费者配置
type NotifierConfig struct {
	Queue string `yaml:"queue"`
}

type Config struct {
	Server   config.ServerConfig `yaml:"server"`
	JWT      config.JWTConfig    `yaml:"jwt"`
	MQ       config.MQConfig     `yaml:"mq"`
	Redis    config.RedisConfig  `yaml:"redis"`
	DB       config.DBConfig     `yaml:"db"`
	Log      config.LogConfig    `yaml:"log"`
	CORS     config.CORSConfig   `yaml:"cors"`
	Project  ProjectConfig       `yaml:"project"`
	Notifier NotifierConfig      `yaml:"notifier"`
}

// Load reads config/<CONFIG_ENV>.yaml over config/base.yaml and applies
// environment overrides.
func Load() (*Config, error) {
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")
	return LoadFrom(env, configDir)
}

func LoadFrom(env, configDir string) (*Config, error) {
	cfgMap, err := config.LoadConfig(env, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := config.Decode(cfgMap, &cfg); err != nil {
		return nil, err
	}

	// 环境变量覆盖（优先级最高）
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideLogFromEnv(&cfg.Log)
	config.OverrideCORSFromEnv(&cfg.CORS)
	overrideProjectFromEnv(&cfg.Project)

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overrideProjectFromEnv(cfg *ProjectConfig) {
	if name := os.Getenv("PROJECT_NAME"); name != "" {
		cfg.Name = name
	}
	if lead := os.Getenv("PROJECT_LEAD_ORGANIZATION"); lead != "" {
		cfg.LeadOrganization = lead
	}
	if seed := os.Getenv("PROJECT_SEED"); seed != "" {
		if b, err := strconv.ParseBool(seed); err == nil {
			cfg.Seed = b
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Notifier.Queue == "" {
		c.Notifier.Queue = "notification.created.q"
	}
	c.Project.LeadOrganization = strings.TrimSpace(c.Project.LeadOrganization)
	for i, p := range c.Project.Partners {
		c.Project.Partners[i] = strings.TrimSpace(p)
	}
	if c.Project.LeadOrganization == "" && len(c.Project.Partners) > 0 {
		c.Project.LeadOrganization = c.Project.Partners[0]
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" || strings.HasPrefix(c.JWT.Secret, "${") {
		return fmt.Errorf("jwt.secret must be set")
	}
	if len(c.Project.Partners) == 0 {
		return fmt.Errorf("project.partners must not be empty")
	}
	// 合作方名称用作图表分组，不允许为空或重复
	seen := make(map[string]bool, len(c.Project.Partners))
	for _, p := range c.Project.Partners {
		if p == "" {
			return fmt.Errorf("project.partners must not contain empty names")
		}
		if seen[p] {
			return fmt.Errorf("project.partners lists %q more than once", p)
		}
		seen[p] = true
	}
	if !seen[c.Project.LeadOrganization] {
		return fmt.Errorf("project.lead_organization %q is not one of project.partners", c.Project.LeadOrganization)
	}
	return nil
}
