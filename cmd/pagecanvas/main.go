/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagecanvas/internal/config"
	"pagecanvas/internal/crash"
	"pagecanvas/internal/domain"
	"pagecanvas/internal/editor"
	"pagecanvas/internal/interaction"
	applog "pagecanvas/internal/log"
	"pagecanvas/internal/render"
	"pagecanvas/internal/script"
	"pagecanvas/internal/storage"
	"pagecanvas/internal/version"
)

func usage() {
	fmt.Println("PageCanvas - headless page canvas editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pagecanvas version|-v|--version               Show version")
	fmt.Println("  pagecanvas new <dir> [<width> <height>]        Create an empty page at <dir>")
	fmt.Println("  pagecanvas info <dir>                          Print a page summary")
	fmt.Println("  pagecanvas validate <dir>                      Check page.json against the page schema")
	fmt.Println("  pagecanvas find <dir> [<text>] [type=<t>...]   Search the component catalog")
	fmt.Println("  pagecanvas replay <dir> <script>               Replay a gesture script and save the page")
	fmt.Println("  pagecanvas export <dir> <out.svg|png|pdf> [<scale>]  Render a wireframe")
	fmt.Println("  pagecanvas history <dir>                       List the persisted edit journal")
	fmt.Println("  pagecanvas config [init]                       Show or write the user configuration")
}

func main() {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config invalid, using defaults", slog.Any("err", cfgErr))
	}
	var ph *storage.PageHandle
	defer crash.RecoverFrom(&ph)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	ctx := context.Background()
	need := func(n int, what string) {
		if len(args) < n {
			fmt.Printf("%s requires %s\n", args[1], what)
			usage()
			os.Exit(2)
		}
	}
	fatal := func(msg string, err error) {
		l.Error(msg, slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	open := func(dir string) *storage.PageHandle {
		abs, _ := filepath.Abs(dir)
		h, err := storage.Open(abs)
		if err != nil {
			fatal("open failed", err)
		}
		if h.Recovered {
			fmt.Println("Warning: page.json was unreadable; opened the newest valid backup")
		}
		if rebuilt, err := storage.DetectAndRebuildIndex(ctx, h); err != nil {
			l.Warn("index check failed", slog.Any("err", err))
		} else if rebuilt {
			fmt.Println("Index was rebuilt; snapshots and journal were reset")
		}
		ph = h
		return h
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("PageCanvas")
		fmt.Println(version.String())
	case "new":
		need(3, "<dir>")
		abs, _ := filepath.Abs(args[2])
		page := domain.PageSchema{
			ID:         uuid.NewString(),
			Width:      1920,
			Height:     1080,
			Background: domain.Background{UseType: "color", Color: "#ffffff"},
			Components: []domain.ComponentSchema{},
		}
		if len(args) >= 5 {
			w, errW := strconv.ParseFloat(args[3], 64)
			hgt, errH := strconv.ParseFloat(args[4], 64)
			if errW != nil || errH != nil || w <= 0 || hgt <= 0 {
				fmt.Println("width and height must be positive numbers")
				os.Exit(2)
			}
			page.Width, page.Height = w, hgt
		}
		l.Info("new page", slog.String("root", abs), slog.String("page", page.ID))
		h, err := storage.InitPage(abs, page)
		if err != nil {
			fatal("init failed", err)
		}
		ph = h
		if err := storage.UpdateIndex(ctx, h); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		fmt.Println("Created page at", abs)
	case "info":
		need(3, "<dir>")
		h := open(args[2])
		printInfo(ctx, h)
	case "validate":
		need(3, "<dir>")
		abs, _ := filepath.Abs(args[2])
		data, err := os.ReadFile(filepath.Join(abs, storage.PageFileName))
		if err != nil {
			fatal("read failed", err)
		}
		if err := storage.Validate(data); err != nil {
			fmt.Println("Invalid:", err)
			os.Exit(1)
		}
		fmt.Println("OK")
	case "find":
		need(3, "<dir>")
		h := open(args[2])
		q := storage.ComponentQuery{Limit: 100}
		var words []string
		for _, a := range args[3:] {
			if t, ok := strings.CutPrefix(a, "type="); ok {
				q.Types = append(q.Types, t)
				continue
			}
			words = append(words, a)
		}
		q.Text = strings.Join(words, " ")
		hits, err := storage.SearchComponents(ctx, h, q)
		if err != nil {
			fatal("search failed", err)
		}
		for _, hit := range hits {
			parent := hit.Parent
			if parent == "" {
				parent = "-"
			}
			fmt.Printf("%-24s %-10s parent=%-24s z=%d %s\n", hit.ID, hit.Type, parent, hit.Z, hit.Name)
		}
		fmt.Printf("%d match(es)\n", len(hits))
	case "replay":
		need(4, "<dir> and <script>")
		h := open(args[2])
		res, err := replay(ctx, cfg, h, args[3])
		if err != nil {
			fatal("replay failed", err)
		}
		fmt.Printf("Replayed %d step(s), created %d component(s)\n", res.Steps, len(res.Created))
		for _, n := range res.Notes {
			fmt.Println("  ;", n)
		}
		if !res.OK() {
			for _, f := range res.Failures {
				fmt.Println("  fail:", f.Error())
			}
			os.Exit(1)
		}
	case "export":
		need(4, "<dir> and <out>")
		h := open(args[2])
		opt := render.Options{Scale: 1}
		if len(args) >= 5 {
			s, err := strconv.ParseFloat(args[4], 64)
			if err != nil || s <= 0 {
				fmt.Println("scale must be a positive number")
				os.Exit(2)
			}
			opt.Scale = s
		}
		if err := export(cfg, h, args[3], opt); err != nil {
			fatal("export failed", err)
		}
		fmt.Println("Wrote", args[3])
	case "history":
		need(3, "<dir>")
		h := open(args[2])
		entries, err := storage.LoadJournal(ctx, h)
		if err != nil {
			fatal("journal load failed", err)
		}
		for _, e := range entries {
			fmt.Printf("%4d  %s  %-16s %s\n", e.Seq, e.TS.Format(time.RFC3339), e.Kind, e.Title)
		}
		fmt.Printf("%d record(s)\n", len(entries))
	case "config":
		path, err := config.ConfigPath()
		if err != nil {
			fatal("config path", err)
		}
		if len(args) >= 3 && args[2] == "init" {
			if err := config.SaveTo(path, cfg); err != nil {
				fatal("config save failed", err)
			}
			fmt.Println("Wrote", path)
			return
		}
		fmt.Println("Config file:", path)
		fmt.Printf("Editor:  %+v\n", cfg.Editor)
		fmt.Printf("Canvas:  %+v\n", cfg.Canvas)
		fmt.Printf("Storage: %+v\n", cfg.Storage)
		fmt.Printf("Logging: %+v\n", cfg.Logging)
	default:
		usage()
		os.Exit(2)
	}
}

func editorOptions(cfg config.AppConfig) editor.Options {
	o := editor.DefaultOptions()
	o.MaxRecords = cfg.Editor.MaxRecords
	o.NudgeStep = cfg.Editor.NudgeStep
	o.MinSize = cfg.Editor.MinSize
	o.PasteOffset = cfg.Editor.PasteOffset
	o.DeleteLocked = cfg.Editor.DeleteLocked
	o.Guides = cfg.Canvas.Guides
	o.SnapThreshold = cfg.Canvas.SnapThreshold
	o.Zoom = interaction.ZoomLimits{Min: cfg.Canvas.MinZoom, Max: cfg.Canvas.MaxZoom}
	o.DefaultZoom = cfg.Canvas.DefaultZoom
	return o
}

func printInfo(ctx context.Context, h *storage.PageHandle) {
	p := h.Page
	fmt.Printf("Page: %s (%gx%g)\n", p.ID, p.Width, p.Height)
	counts := map[string]int{}
	total := 0
	var walk func([]domain.ComponentSchema)
	walk = func(cs []domain.ComponentSchema) {
		for _, c := range cs {
			counts[c.Type]++
			total++
			walk(c.Children)
		}
	}
	walk(p.Components)
	fmt.Printf("Components: %d top-level, %d total\n", len(p.Components), total)
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		fmt.Printf("  %-12s %d\n", t, counts[t])
	}
	if b, err := storage.Backups(h.Root); err == nil {
		fmt.Printf("Backups: %d\n", len(b))
	}
	if s, ok, err := storage.LatestSnapshot(ctx, h); err == nil && ok {
		fmt.Println("Latest snapshot:", s.TS.Format(time.RFC3339))
	}
	fmt.Println("Root:", h.Root)
}

func replay(ctx context.Context, cfg config.AppConfig, h *storage.PageHandle, path string) (script.Result, error) {
	l := applog.WithPage(applog.WithOperation(applog.WithComponent("cli"), "replay"), h.Page.ID)
	src, err := os.ReadFile(path)
	if err != nil {
		return script.Result{}, err
	}
	s, errs := script.Parse(string(src))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Println("  parse:", e.Error())
		}
		return script.Result{}, fmt.Errorf("%s: %d parse error(s)", path, len(errs))
	}

	ed := editor.New(editorOptions(cfg))
	defer ed.Close()
	ed.Open(h.Page)
	crash.SetPageSource(ed.Page)
	defer crash.SetPageSource(nil)

	res, err := script.Run(ed, s)
	if err != nil {
		return res, err
	}
	if !ed.Dirty() {
		l.Info("no changes to save")
		return res, nil
	}
	h.Page = ed.Page()
	if err := storage.Save(h); err != nil {
		return res, err
	}
	ed.MarkSaved()

	recs := ed.History().UndoStack()
	slices.Reverse(recs)
	if err := storage.AppendJournal(ctx, h, recs...); err != nil {
		l.Warn("journal append failed", slog.Any("err", err))
	}
	if cfg.Storage.AutosaveSnapshots {
		if err := storage.SaveSnapshot(ctx, h, time.Now()); err != nil {
			l.Warn("snapshot failed", slog.Any("err", err))
		} else if n, err := storage.PruneSnapshots(ctx, h, cfg.Storage.KeepSnapshots); err == nil && n > 0 {
			l.Debug("snapshots pruned", slog.Int64("removed", n))
		}
	}
	if err := storage.UpdateIndex(ctx, h); err != nil {
		l.Warn("index update failed", slog.Any("err", err))
	}
	l.Info("replay saved", slog.Int("steps", res.Steps), slog.Int("records", len(recs)))
	return res, nil
}

func export(cfg config.AppConfig, h *storage.PageHandle, out string, opt render.Options) error {
	ed := editor.New(editorOptions(cfg))
	defer ed.Close()
	ed.Open(h.Page)
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	frame := ed.Frame()
	switch strings.ToLower(filepath.Ext(out)) {
	case ".svg":
		err = render.WriteSVG(f, frame, opt)
	case ".png":
		err = render.WritePNG(f, frame, opt)
	case ".pdf":
		err = render.WritePDF(f, frame, h.Page.ID, opt)
	default:
		err = fmt.Errorf("unsupported export format %q", filepath.Ext(out))
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(out)
	}
	return err
}
