package cli

import (
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/collect"
	"github.com/rileyhilliard/clusterwatch/internal/config"
	"github.com/rileyhilliard/clusterwatch/internal/inventory"
	"github.com/rileyhilliard/clusterwatch/internal/lock"
	"github.com/rileyhilliard/clusterwatch/internal/logger"
	"github.com/rileyhilliard/clusterwatch/internal/refresh"
	"github.com/rileyhilliard/clusterwatch/internal/state"
)

// app is everything a command needs, wired from the loaded config.
type app struct {
	cfg        *config.Config
	inv        *inventory.Inventory
	timestamps *state.TimestampStore
	summaries  *state.SummaryStore
	coord      *refresh.Coordinator
	loc        *time.Location
	log        logger.Logger
}

func loadApp(flags *globalFlags, d *deps) (*app, error) {
	cfg, err := config.LoadOrDefault(flags.config)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	inv := inventory.Default()
	if cfg.HostsFile != "" {
		if inv, err = inventory.Load(cfg.HostsFile); err != nil {
			return nil, err
		}
	}

	log := d.log
	if log == nil {
		log = logger.Noop()
	}

	collector := d.collector
	if collector == nil {
		ac := collect.NewAnsibleCollector(cfg.Ansible.Inventory, cfg.Ansible.WorkDir, cfg.Playbooks())
		ac.Binary = cfg.Ansible.Path
		collector = ac
	}

	categories := make(map[string]refresh.Category, len(cfg.Categories))
	for name, cat := range cfg.Categories {
		categories[name] = refresh.Category{Cooldown: cat.Cooldown, Summary: cat.Summary}
	}

	a := &app{
		cfg:        cfg,
		inv:        inv,
		timestamps: state.NewTimestampStore(cfg.TimestampPaths()),
		summaries:  state.NewSummaryStore(cfg.Summary),
		loc:        cfg.Location(),
		log:        log,
	}
	a.coord, err = refresh.New(refresh.Options{
		Categories: categories,
		Locker:     lock.NewFileLocker(cfg.Lock.Path),
		Timestamps: a.timestamps,
		Summaries:  a.summaries,
		Collector:  collector,
		Expected:   inv.Names(),
		Now:        d.now,
		Location:   a.loc,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("config: state_dir=%s lock=%s", cfg.StateDir, cfg.Lock.Path)
	return a, nil
}
