package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rasterd/rasterd/internal/config"
	"github.com/rasterd/rasterd/pkg/raster"
)

const version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rasterd",
	Short: "Resolve the grid of map tiles covering a bounding box",
	Long: `rasterd computes the grid of fixed-size map tiles that covers a geographic
bounding box at a given zoom depth. The grid is emitted in render order
(north to south, west to east) so a front end can concatenate the tile
images into one seamless raster.

rasterd only resolves tile coordinates; fetching and stitching the tile
images is up to the consumer.

Examples:
  # Resolve the grid for a Seattle viewport at depth 2
  rasterd --ul-lat 47.754 --ul-lon -122.695 --lr-lat 47.517 --lr-lon -122.212 --depth 2

  # Same box as a single flag, emitted as GeoJSON tile footprints
  rasterd --bbox 47.754,-122.695,47.517,-122.212 --depth 2 --format geojson -o tiles.geojson

  # Start the HTTP API
  rasterd serve --port 8080`,
	RunE: runRasterize,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLog)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rasterd.yaml)")

	// Query box, corner by corner or as one flag
	rootCmd.Flags().Float64("ul-lat", 0, "upper-left latitude (north boundary)")
	rootCmd.Flags().Float64("ul-lon", 0, "upper-left longitude (west boundary)")
	rootCmd.Flags().Float64("lr-lat", 0, "lower-right latitude (south boundary)")
	rootCmd.Flags().Float64("lr-lon", 0, "lower-right longitude (east boundary)")
	rootCmd.Flags().String("bbox", "", "bounding box as 'ul-lat,ul-lon,lr-lat,lr-lon'")

	rootCmd.Flags().Int("depth", 0, "zoom depth into the scheme's constants table")

	// Output options
	rootCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	rootCmd.Flags().StringP("format", "f", "json", "output format (json|geojson)")

	viper.BindPFlag("ul-lat", rootCmd.Flags().Lookup("ul-lat"))
	viper.BindPFlag("ul-lon", rootCmd.Flags().Lookup("ul-lon"))
	viper.BindPFlag("lr-lat", rootCmd.Flags().Lookup("lr-lat"))
	viper.BindPFlag("lr-lon", rootCmd.Flags().Lookup("lr-lon"))
	viper.BindPFlag("bbox", rootCmd.Flags().Lookup("bbox"))
	viper.BindPFlag("depth", rootCmd.Flags().Lookup("depth"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rasterd" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rasterd")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runRasterize(cmd *cobra.Command, args []string) error {
	q, ok, err := queryFromFlags()
	if err != nil {
		return err
	}
	if !ok {
		return cmd.Help()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	scheme, err := cfg.TileScheme()
	if err != nil {
		return err
	}

	grid, err := raster.New(scheme).Rasterize(q)
	if err != nil {
		return err
	}

	logger.Infof("resolved %dx%d grid at depth %d", grid.Height(), grid.Width(), q.Depth)

	var payload any
	switch format := viper.GetString("format"); format {
	case "json":
		payload = grid.Result()
	case "geojson":
		payload = grid.FeatureCollection()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if output := viper.GetString("output"); output != "" {
		return os.WriteFile(output, data, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// queryFromFlags assembles the raster query from either --bbox or the four
// corner flags. ok is false when no coordinates were given at all.
func queryFromFlags() (q raster.Query, ok bool, err error) {
	q.Depth = viper.GetInt("depth")

	if bbox := viper.GetString("bbox"); bbox != "" {
		parts := strings.Split(bbox, ",")
		if len(parts) != 4 {
			return q, false, fmt.Errorf("bbox must be in format 'ul-lat,ul-lon,lr-lat,lr-lon'")
		}
		vals := make([]float64, 4)
		for i, part := range parts {
			vals[i], err = strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return q, false, fmt.Errorf("invalid bbox component %q: %v", part, err)
			}
		}
		q.ULLat, q.ULLon, q.LRLat, q.LRLon = vals[0], vals[1], vals[2], vals[3]
		return q, true, nil
	}

	q.ULLat = viper.GetFloat64("ul-lat")
	q.ULLon = viper.GetFloat64("ul-lon")
	q.LRLat = viper.GetFloat64("lr-lat")
	q.LRLon = viper.GetFloat64("lr-lon")

	if q.ULLat == 0 && q.ULLon == 0 && q.LRLat == 0 && q.LRLon == 0 {
		return q, false, nil
	}
	return q, true, nil
}
