// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operator_test

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mediawiki-operator/core/relation"
	"github.com/juju/mediawiki-operator/internal/operator"
)

type resolverSuite struct{}

var _ = gc.Suite(&resolverSuite{})

func (*resolverSuite) TestResolvesPrimary(c *gc.C) {
	replica := primaryDbUnit()
	replica[relation.DbSlaveKey] = "True"
	snap := dbSnapshot(map[string]map[string]string{
		"mysql/0": replica,
		"mysql/1": primaryDbUnit(),
	})
	endpoint, err := operator.ResolveEndpoint(snap)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(endpoint, gc.Equals, relation.DbEndpoint{
		Host:     "10.0.0.1",
		Database: "wiki",
		User:     "u",
		Password: "p",
	})
}

func (*resolverSuite) TestUnresolvedWhenAllReplicas(c *gc.C) {
	replica := primaryDbUnit()
	replica[relation.DbSlaveKey] = "True"
	snap := dbSnapshot(map[string]map[string]string{"mysql/0": replica})
	_, err := operator.ResolveEndpoint(snap)
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (*resolverSuite) TestUnresolvedWhenDatabaseMissing(c *gc.C) {
	unit := primaryDbUnit()
	delete(unit, relation.DbDatabaseKey)
	snap := dbSnapshot(map[string]map[string]string{"mysql/0": unit})
	_, err := operator.ResolveEndpoint(snap)
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (*resolverSuite) TestUnresolvedWhenNoUnits(c *gc.C) {
	snap := dbSnapshot(nil)
	_, err := operator.ResolveEndpoint(snap)
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (*resolverSuite) TestIgnoresForeignEntries(c *gc.C) {
	// A same-relation self entry must never resolve, even if it
	// somehow carries primary-shaped data.
	snap := dbSnapshot(map[string]map[string]string{
		"mediawiki/0": primaryDbUnit(),
		"not-a-unit":  primaryDbUnit(),
	})
	_, err := operator.ResolveEndpoint(snap)
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (*resolverSuite) TestFirstMatchInNaturalOrderWins(c *gc.C) {
	second := primaryDbUnit()
	second[relation.DbHostKey] = "10.0.0.2"
	snap := dbSnapshot(map[string]map[string]string{
		"mysql/10": second,
		"mysql/2":  primaryDbUnit(),
	})
	endpoint, err := operator.ResolveEndpoint(snap)
	c.Assert(err, jc.ErrorIsNil)
	// mysql/2 sorts before mysql/10 in natural order.
	c.Check(endpoint.Host, gc.Equals, "10.0.0.1")
}
