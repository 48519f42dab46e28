// Copyright 2018 Rob Marissen.
// SPDX-License-Identifier: MIT

// Package main is the multiplex command-line tool: it reads an mzML file,
// runs the peptide-multiplet quantitation engine, and writes a consensus
// map and feature map.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const progName = "multiplex"

var progVersion = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     progName,
	Short:   "Identify and quantify labelled peptide multiplets in LC-MS data",
	Version: progVersion,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./multiplex.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(quantifyCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("multiplex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("MULTIPLEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "%s: reading config: %v\n", progName, err)
		}
	}
}

// Execute adds all child commands to the root command and runs it. It is
// called by main.main and only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
