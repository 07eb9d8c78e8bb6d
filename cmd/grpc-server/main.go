package main

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"recipehub/internal/grpcserver"
	"recipehub/internal/recipes"
	"recipehub/pkg/utils"
)

func main() {
	utils.LoadDotEnv()
	logger := utils.MustLogger(utils.LoadLogConfig())
	defer logger.Sync()

	svc := recipes.Build(utils.LoadCatalogConfig(), logger)
	svc.Cache.Start(context.Background())

	grpcCfg := utils.LoadGrpcConfig()
	listener, err := net.Listen("tcp", grpcCfg.Addr)
	if err != nil {
		logger.Fatal("grpc listen failed", zap.Error(err))
	}

	grpcServer := grpc.NewServer(grpcserver.ServerOptions(logger)...)
	grpcserver.RegisterCatalogServer(grpcServer, grpcserver.NewServer(svc))

	logger.Info("gRPC server listening", zap.String("addr", grpcCfg.Addr))
	if err := grpcServer.Serve(listener); err != nil {
		logger.Fatal("grpc server stopped", zap.Error(err))
	}
}
