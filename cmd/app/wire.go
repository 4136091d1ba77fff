//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/cosmo-uplink/internal/bootstrap"
	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	"github.com/yanqian/cosmo-uplink/internal/domain/telemetry"
	"github.com/yanqian/cosmo-uplink/internal/infra/config"
	httpiface "github.com/yanqian/cosmo-uplink/internal/interface/http"
	"github.com/yanqian/cosmo-uplink/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideReportConfig,
		provideChatClient,
		provideTelemetryConfig,
		provideMissionLogConfig,
		provideTokenCounter,
		provideLogStore,
		provideArchive,
		missionreport.NewGenerator,
		missionreport.NewController,
		telemetry.NewService,
		missionlog.NewService,
		wire.Bind(new(missionlog.ReportSource), new(*missionreport.Controller)),
		wire.Bind(new(httpiface.ReportController), new(*missionreport.Controller)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
