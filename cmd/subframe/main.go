package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/spf13/pflag"

	"github.com/nasa-jpl/subframe/embedsub"
	"github.com/nasa-jpl/subframe/generichttp"
	"github.com/nasa-jpl/subframe/sub2full"

	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "subframe.yml"
	k              = koanf.New(".")
)

// Config holds the settings shared by every command
type Config struct {
	// Addr is the address the server listens at
	Addr string `koanf:"addr" yaml:"addr"`

	// Root is the directory relative file names are resolved against by the server
	Root string `koanf:"root" yaml:"root"`

	// Workers is the number of files embedsub processes at once
	Workers int `koanf:"workers" yaml:"workers"`
}

func setupconfig() {
	k.Load(structs.Provider(Config{
		Addr:    ":8000",
		Root:    ".",
		Workers: 1}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

// loadflags parses args into fs and layers the flags that were set over the config
func loadflags(fs *pflag.FlagSet, args []string) Config {
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		log.Fatalf("error loading flags: %v", err)
	}
	c := Config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	return c
}

func root() {
	str := `subframe locates WFC3 subarrays in the full detector frame and embeds
subarray images into full frame images.

Usage:
	subframe <command> [flags] [files]

Commands:
	sub2full
	embedsub
	serve
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `subframe works on calibrated WFC3 products named <rootname>_<suffix>.fits.
The subarray geometry is read from the SPT file of the same rootname, which
must sit next to each input.  Inputs may be file names, shell globs, or
@listfile for a file holding one name per line.

sub2full [-x X -y Y] [--full] files...
	print the full frame corner of each subarray as (x0, y0).  With --full,
	print (x0, x1, y0, y1).  With -x and -y, translate that subarray pixel
	to the full frame instead; --full is then ignored.

embedsub [--workers N] files...
	write the full frame version of each _flt or _flc file.  ibbso1fdq_flt.fits
	becomes ibbso1fdf_flt.fits.  Existing files are never overwritten.
	Files with other names are skipped with a warning.

serve
	expose sub2full and embedsub over HTTP at addr:
	GET  /sub2full?file=...&x=..&y=..&full=true
	POST /embedsub {"files": [...]}
	file names are relative to root.

subframe is amenable to configuration via its .yaml file, ` + ConfigFileName + `.
mkconf writes the current configuration there, conf prints it.`
	fmt.Println(str)
}

func mkconf() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := Config{}
	k.Unmarshal("", &c)
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("subframe version %v\n", Version)
}

// formatTuple renders a mapping the way it is usually quoted, (x0, y0)
func formatTuple(m sub2full.Mapping) string {
	t := m.Tuple()
	s := make([]string, len(t))
	for i, v := range t {
		s[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(s, ", ") + ")"
}

func runSub2full(args []string) {
	fs := pflag.NewFlagSet("sub2full", pflag.ExitOnError)
	x := fs.StringP("x", "x", "", "x position within the subarray to translate")
	y := fs.StringP("y", "y", "", "y position within the subarray to translate")
	full := fs.Bool("full", false, "print the full extent (x0, x1, y0, y1)")
	loadflags(fs, args)

	opts := sub2full.Options{FullExtent: *full}
	if fs.Changed("x") || fs.Changed("y") {
		p, err := sub2full.ParsePoint(*x, *y)
		if err != nil {
			log.Fatal(err)
		}
		opts.Point = &p
	}
	ms, err := sub2full.ResolveFiles(fs.Args(), opts)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range ms {
		fmt.Println(formatTuple(m))
	}
}

func runEmbedsub(args []string) {
	fs := pflag.NewFlagSet("embedsub", pflag.ExitOnError)
	fs.Int("workers", 1, "number of files to process at once")
	c := loadflags(fs, args)

	b := embedsub.Batch{Workers: c.Workers, Log: log.New(os.Stdout, "", 0)}
	_, err := b.Run(context.Background(), fs.Args()...)
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	fs.String("addr", ":8000", "address to listen at")
	fs.String("root", ".", "directory file names are relative to")
	fs.Int("workers", 1, "number of files to embed at once per request")
	c := loadflags(fs, args)

	table := generichttp.RouteTable{}
	sub2full.HTTPResolve(table, c.Root)
	embedsub.HTTPEmbed(table, c.Root, embedsub.Batch{Workers: c.Workers, Log: log.New(os.Stderr, "", log.LstdFlags)})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	table.Bind(r)
	log.Println("now listening for requests at ", c.Addr, "serving files under", c.Root)
	log.Fatal(http.ListenAndServe(c.Addr, r))
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "sub2full":
		runSub2full(args[2:])
		return
	case "embedsub":
		runEmbedsub(args[2:])
		return
	case "serve", "run":
		run(args[2:])
		return
	case "version":
		pversion()
		return
	default:
		log.Fatal("unknown command")
	}
}
