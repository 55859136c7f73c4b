package platform

import (
	"github.com/aretw0/marl/pkg/model"
)

// New initializes a store for the URI and wires a model around it.
//
//	m, err := marl.New("./data/users.json", marl.WithCache(cache))
func New(uri string, opts ...Option) (*model.Model, error) {
	store, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	// Parse options again here to carry the model-level collaborators.
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	modelOpts := []model.Option{}
	if o.cache != nil {
		modelOpts = append(modelOpts, model.WithCache(o.cache))
	}
	if o.builder != nil {
		modelOpts = append(modelOpts, model.WithConditionBuilder(o.builder))
	}
	if o.validator != nil {
		modelOpts = append(modelOpts, model.WithValidator(o.validator))
	}
	if len(o.hooks) > 0 {
		modelOpts = append(modelOpts, model.WithHooks(o.hooks...))
	}
	if o.logger != nil {
		modelOpts = append(modelOpts, model.WithLogger(o.logger))
	}

	return model.New(store, modelOpts...), nil
}
