/*
Package config loads and saves the ipatlas settings, a JSON file with a
default and a user-defined profile of worker pool sizes:

	{
	  "default_settings": true,
	  "default": {
	    "thread_amounts": {
	      "ping_thread_amount": 4,
	      "load_thread_amount": 32,
	      "result_thread_amount": 16,
	      "save_thread_amount": 32
	    }
	  },
	  "user_defined": { "thread_amounts": { ... } }
	}

"default_settings" selects which profile is in effect. As there are only 64
atlas tiles, more than 64 load or save threads are rejected.

# Acknowledgements

Settings are handled using [koanf].

[koanf]: https://github.com/knadh/koanf
*/
package config
