package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/craigmiskell/cookiemaster/cmd/common"
	"github.com/craigmiskell/cookiemaster/internal/cookiestore"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

var (
	auditDomain string
	auditAll    bool
	auditJSON   bool

	auditFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "domain, d",
			Usage:       "only audit cookies for this domain and its subdomains",
			Destination: &auditDomain,
		},
		cli.BoolFlag{
			Name:        "all, a",
			Usage:       "also list cookies the policy keeps (default: false)",
			Destination: &auditAll,
		},
		cli.BoolFlag{
			Name:        "json, j",
			Usage:       "print the findings as JSON (default: false)",
			Destination: &auditJSON,
		},
	}

	// auditOutput receives the progress bar; tests silence it.
	auditOutput io.Writer = os.Stderr
)

// AuditFinding is what the policy would do with one stored cookie.
type AuditFinding struct {
	Name     string               `json:"name"`
	Domain   string               `json:"domain"`
	Path     string               `json:"path"`
	Session  bool                 `json:"session"`
	Decision policy.StoreDecision `json:"decision"`
}

// AuditReport summarises an audit of one store.
type AuditReport struct {
	Store    string         `json:"store"`
	Browser  string         `json:"browser"`
	Total    int            `json:"total"`
	Keep     int            `json:"keep"`
	Remove   int            `json:"remove"`
	Session  int            `json:"makeSession"`
	Findings []AuditFinding `json:"findings"`
}

func runAudit(records []cookiestore.Record, cfg *policy.Config, bar *mpb.Bar) AuditReport {
	rep := AuditReport{Total: len(records), Findings: []AuditFinding{}}
	for _, r := range records {
		d := policy.EvaluateStoreCookie(policy.StoreChange{Cookie: r.StoreCookie()}, cfg)
		switch d.Action {
		case policy.Remove:
			rep.Remove++
		case policy.MakeSession:
			rep.Session++
		default:
			rep.Keep++
		}
		if auditAll || d.Action != policy.Keep {
			rep.Findings = append(rep.Findings, AuditFinding{
				Name:     r.Name,
				Domain:   r.Domain,
				Path:     r.Path,
				Session:  r.Session(),
				Decision: d,
			})
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return rep
}

func audit(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		src, err := cookiestore.DefaultStore()
		if err != nil {
			common.PrintRuntimeErr(ctx, "audit", "locate_store", err)
			return nil
		}
		path = src.Path
	}
	rt, err := openRuntime()
	if err != nil {
		common.PrintRuntimeErr(ctx, "audit", "load_config", err)
		return nil
	}
	defer rt.Close()

	records, src, err := cookiestore.Read(path, cookiestore.Options{
		Domain: auditDomain,
		Log:    rt.Log,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "audit", "read_store", err)
		return nil
	}

	p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(auditOutput), mpb.WithRefreshRate(50*time.Millisecond))
	bar := common.InitAuditBar(p, "Auditing", int64(len(records)))
	rep := runAudit(records, rt.Api.GetConfig(), bar)
	if len(records) == 0 {
		bar.SetTotal(-1, true)
	}
	p.Wait()
	rep.Store, rep.Browser = src.Path, src.Browser

	if auditJSON {
		return printJSON(rep)
	}
	printAudit(rep)
	return nil
}

func printAudit(rep AuditReport) {
	fmt.Printf("%s cookie store %s\n", rep.Browser, rep.Store)
	fmt.Printf("%d cookies: %d kept, %d removed, %d made session\n\n",
		rep.Total, rep.Keep, rep.Remove, rep.Session)
	for _, f := range rep.Findings {
		name := f.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		fmt.Printf("  %-12s %-24s %s%s\n", f.Decision.Action, name, f.Domain, f.Path)
	}
}
