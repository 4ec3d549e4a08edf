/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/filemorph/morph/pkg/bucket"
	"github.com/filemorph/morph/pkg/config"
	"github.com/filemorph/morph/pkg/mlog"
	"github.com/filemorph/morph/pkg/morphd/convert"
	"github.com/filemorph/morph/pkg/morphd/history"
	"github.com/filemorph/morph/pkg/morphd/session"
	"github.com/filemorph/morph/pkg/morphd/webapi"
	"github.com/filemorph/morph/pkg/morphdb"
	"github.com/filemorph/morph/pkg/morphdb/stor"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "morphd",
	Short: "Run the morphd file conversion server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		mlog.Setup()

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		c := config.MustLoadFromMorphDotenv()

		dbPath := c.GetKeyWithDefault("MORPH_DB", morphdb.DefaultDBPath())
		db := morphdb.MustConnectToDB(dbPath)
		stors := stor.NewGormStors(db)
		log.Infof("History DB: %s", dbPath)

		historyLog := history.NewLog(stors.SnapshotStor)
		historyLog.Load()

		hub := webapi.NewProgressHub()

		driverOpts := []convert.Option{
			convert.WithProgress(hub.Publish),
			convert.WithStepDelay(time.Duration(c.GetIntKeyWithDefault("CONVERT_STEP_MS", 100)) * time.Millisecond),
			convert.WithUploadTimeout(time.Duration(c.GetIntKeyWithDefault("BUCKET_TIMEOUT_SECONDS", 30)) * time.Second),
		}

		if objClient := connectToBucket(c); objClient != nil {
			driverOpts = append(driverOpts, convert.WithObjClient(objClient))
		}

		setupRoutes(e, RouteOpts{
			manager:    session.NewManager(),
			driver:     convert.NewDriver(driverOpts...),
			historyLog: historyLog,
			hub:        hub,
		})

		if err := e.Start(":" + c.GetKeyWithDefault("MORPHD_PORT", "1470")); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// connectToBucket creates the storage collaborator client and performs the
// anonymous handshake. No BUCKET_URL means conversions complete without
// stored artifacts; a failed handshake is logged and the client still used,
// upload failures are tolerated per conversion.
func connectToBucket(c config.Configer) bucket.ObjClient {
	bucketURL := c.GetKey("BUCKET_URL")
	if bucketURL == "" {
		log.Infof("No BUCKET_URL configured, conversions will not be persisted")
		return nil
	}

	timeout := time.Duration(c.GetIntKeyWithDefault("BUCKET_TIMEOUT_SECONDS", 30)) * time.Second
	objClient := bucket.NewClient(bucketURL, timeout)

	if err := objClient.Authenticate(context.Background()); err != nil {
		log.Errorf("Anonymous sign-in to bucket failed: %s", err)
	}

	return objClient
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
