// Package config loads the dgrid configuration file.
//
// The file is dgrid.json by default; dgrid.toml, dgrid.yaml and dgrid.yml
// are read the same way. Missing values are filled with defaults and the
// result is validated before it is returned. Parse errors carry the file
// position of the problem.
//
// # Configuration File Structure
//
//	{
//	  "name": "people",
//	  "server": {"host": "localhost", "port": 8080, "watch": true},
//	  "grid": {
//	    "itemsPerPage": 10,
//	    "columns": [
//	      {"id": "id", "label": "ID", "sortable": true},
//	      {"id": "name", "label": "Name", "sortable": true, "editable": true},
//	      {"id": "age", "label": "Age", "sortable": true, "color": "#555"}
//	    ]
//	  },
//	  "data": {"source": "file", "path": "people.csv"},
//	  "log": {"level": "info", "format": "json"},
//	  "metrics": {"enabled": true},
//	  "tracing": {"enabled": false}
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    errors.PrintError(err)
//	    os.Exit(1)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
