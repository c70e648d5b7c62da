// Package runner wires configuration, artifact resolution, the isolation
// boundary and the lifecycle executor together.
//
//	cfg, _ := config.LoadAll("")
//	r, err := runner.New(cfg, runner.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := r.Start(ctx); err != nil {
//	    return err
//	}
//	defer r.Stop()
//	fmt.Println(r.Endpoint())
package runner
